package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Subject is one graded subject line on the card.
type Subject struct {
	Name  string
	Score int
}

// ReportCard is the data rendered into the PDF. Kept free of store types so
// any caller can export a card.
type ReportCard struct {
	Name       string
	RollNo     string
	Class      string
	Section    string
	Date       time.Time
	Subjects   []Subject
	Total      int
	Percentage float64
	Grade      string
}

// ReportCardPDF renders one report card as a single-page PDF, one field per
// line.
func ReportCardPDF(card ReportCard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Official Report Card", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Name: %s", card.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Class: %s-%s", card.Class, card.Section), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Roll No: %s", card.RollNo), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Date: %s", card.Date.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")

	pdf.CellFormat(0, 10, "Subject Marks:", "", 1, "L", false, 0, "")
	for _, subject := range card.Subjects {
		pdf.CellFormat(0, 10, fmt.Sprintf("%s: %d/100", subject.Name, subject.Score), "", 1, "L", false, 0, "")
	}

	pdf.CellFormat(0, 10, fmt.Sprintf("Total: %d/600", card.Total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Percentage: %.2f%%", card.Percentage), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Grade: %s", card.Grade), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report card: %w", err)
	}
	return buf.Bytes(), nil
}
