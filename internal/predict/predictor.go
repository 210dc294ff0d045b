package predict

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInsufficientHistory means fewer than three reports exist for the
	// student, so no training pair can be held out for prediction.
	ErrInsufficientHistory = errors.New("insufficient history for prediction")
	// ErrUnavailable covers any numerical failure during fit or predict.
	ErrUnavailable = errors.New("no prediction available")
)

const (
	minHistory = 3
	features   = 6

	// Small ridge term keeps the normal equations well-posed even when
	// training rows < features (which is the common case here: a handful of
	// terms against six subjects plus an intercept).
	ridgeLambda = 1e-6
)

// Sample is one term in a student's history: the six subject scores and the
// percentage achieved that term.
type Sample struct {
	Scores     [features]float64
	Percentage float64
}

// NextPercentage forecasts the following term's percentage from a
// time-ascending history. Each term's scores are paired with the next term's
// percentage, a ridge least-squares model is fitted over those pairs, and the
// latest term's scores produce the forecast, clamped to [0, 100].
func NextPercentage(history []Sample) (prediction float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			prediction, err = 0, ErrUnavailable
		}
	}()

	n := len(history)
	if n < minHistory {
		return 0, ErrInsufficientHistory
	}

	// Training pairs: scores at term i -> percentage at term i+1.
	rows := n - 1
	dims := features + 1 // six weights plus intercept

	x := mat.NewDense(rows, dims, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < features; j++ {
			x.Set(i, j, history[i].Scores[j])
		}
		x.Set(i, features, 1)
		y.SetVec(i, history[i+1].Percentage)
	}

	// Ridge normal equations: (XᵀX + λI) w = Xᵀy.
	var a mat.Dense
	a.Mul(x.T(), x)
	for i := 0; i < dims; i++ {
		a.Set(i, i, a.At(i, i)+ridgeLambda)
	}

	var b mat.VecDense
	b.MulVec(x.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&a, &b); err != nil {
		// A Condition error still carries a usable solution; anything else
		// means the fit failed.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, ErrUnavailable
		}
	}

	latest := history[n-1].Scores
	prediction = w.AtVec(features)
	for j := 0; j < features; j++ {
		prediction += w.AtVec(j) * latest[j]
	}

	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, ErrUnavailable
	}

	return clamp(prediction, 0, 100), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
