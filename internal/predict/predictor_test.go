package predict_test

import (
	"errors"
	"testing"

	"github.com/steffin35/student-report-app/internal/predict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantSample(score, percentage float64) predict.Sample {
	return predict.Sample{
		Scores:     [6]float64{score, score, score, score, score, score},
		Percentage: percentage,
	}
}

func TestNextPercentage_InsufficientHistory(t *testing.T) {
	_, err := predict.NextPercentage(nil)
	assert.True(t, errors.Is(err, predict.ErrInsufficientHistory))

	_, err = predict.NextPercentage([]predict.Sample{
		constantSample(80, 80),
		constantSample(85, 85),
	})
	assert.True(t, errors.Is(err, predict.ErrInsufficientHistory))
}

func TestNextPercentage_ConstantHistoryIsExactFit(t *testing.T) {
	history := []predict.Sample{
		constantSample(80, 80),
		constantSample(80, 80),
		constantSample(80, 80),
	}

	got, err := predict.NextPercentage(history)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, got, 0.001)
}

func TestNextPercentage_LongerConstantHistory(t *testing.T) {
	history := make([]predict.Sample, 6)
	for i := range history {
		history[i] = constantSample(55, 55)
	}

	got, err := predict.NextPercentage(history)
	require.NoError(t, err)
	assert.InDelta(t, 55.0, got, 0.001)
}

func TestNextPercentage_ClampedToRange(t *testing.T) {
	// Steeply declining trend; the raw forecast may fall below zero but the
	// result never leaves [0, 100].
	declining := []predict.Sample{
		constantSample(90, 90),
		constantSample(60, 60),
		constantSample(30, 30),
		constantSample(5, 5),
	}
	got, err := predict.NextPercentage(declining)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)

	rising := []predict.Sample{
		constantSample(10, 10),
		constantSample(40, 40),
		constantSample(70, 70),
		constantSample(99, 99),
	}
	got, err = predict.NextPercentage(rising)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestNextPercentage_MixedHistory(t *testing.T) {
	history := []predict.Sample{
		{Scores: [6]float64{70, 65, 80, 75, 60, 85}, Percentage: 72.5},
		{Scores: [6]float64{75, 70, 82, 78, 66, 88}, Percentage: 76.5},
		{Scores: [6]float64{80, 74, 85, 80, 70, 90}, Percentage: 79.83},
		{Scores: [6]float64{82, 78, 88, 84, 75, 92}, Percentage: 83.17},
	}

	got, err := predict.NextPercentage(history)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}
