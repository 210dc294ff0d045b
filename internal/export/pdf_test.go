package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/steffin35/student-report-app/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCardPDF(t *testing.T) {
	card := export.ReportCard{
		Name:    "Asha Kumar",
		RollNo:  "R001",
		Class:   "10",
		Section: "A",
		Date:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Subjects: []export.Subject{
			{Name: "Tamil", Score: 78},
			{Name: "English", Score: 85},
			{Name: "Maths", Score: 92},
			{Name: "Science", Score: 88},
			{Name: "Social", Score: 74},
			{Name: "Computer", Score: 95},
		},
		Total:      512,
		Percentage: 85.33,
		Grade:      "A",
	}

	data, err := export.ReportCardPDF(card)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output starts with the PDF magic bytes")
	assert.Greater(t, len(data), 500, "a rendered page is not trivially small")
}

func TestReportCardPDF_NoSubjects(t *testing.T) {
	data, err := export.ReportCardPDF(export.ReportCard{
		Name:   "Empty Card",
		RollNo: "R000",
		Date:   time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
