package report

import (
	"math"
	"time"

	"github.com/uptrace/bun"
)

// The six graded subjects, in store column order.
const SubjectCount = 6

// Scores is one term's marks, each 0-100 (validated at the boundary).
type Scores struct {
	Tamil    int `json:"tamil" validate:"min=0,max=100"`
	English  int `json:"english" validate:"min=0,max=100"`
	Maths    int `json:"maths" validate:"min=0,max=100"`
	Science  int `json:"science" validate:"min=0,max=100"`
	Social   int `json:"social" validate:"min=0,max=100"`
	Computer int `json:"computer" validate:"min=0,max=100"`
}

func (s Scores) Total() int {
	return s.Tamil + s.English + s.Maths + s.Science + s.Social + s.Computer
}

// Report is one term's complete score snapshot. Rows are append-only: the
// primary key autoincrements and roll_no carries no uniqueness constraint, so
// history accumulates per student. That history feeds the trend predictor.
type Report struct {
	bun.BaseModel `bun:"table:reports"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	RollNo     string    `bun:"roll_no,notnull" json:"rollNo"`
	Class      string    `bun:"class,notnull" json:"class"`
	Section    string    `bun:"section,notnull" json:"section"`
	Tamil      int       `bun:"tamil,notnull" json:"tamil"`
	English    int       `bun:"english,notnull" json:"english"`
	Maths      int       `bun:"maths,notnull" json:"maths"`
	Science    int       `bun:"science,notnull" json:"science"`
	Social     int       `bun:"social,notnull" json:"social"`
	Computer   int       `bun:"computer,notnull" json:"computer"`
	Total      int       `bun:"total,notnull" json:"total"`
	Percentage float64   `bun:"percentage,notnull" json:"percentage"`
	Grade      string    `bun:"grade,notnull" json:"grade"`
	Timestamp  time.Time `bun:"timestamp,notnull" json:"timestamp"`
}

// New builds a complete report from a student's identity and one set of
// scores, deriving total, percentage and grade.
func New(name, rollNo, class, section string, scores Scores) *Report {
	total := scores.Total()
	percentage := Percentage(total)
	return &Report{
		Name:       name,
		RollNo:     rollNo,
		Class:      class,
		Section:    section,
		Tamil:      scores.Tamil,
		English:    scores.English,
		Maths:      scores.Maths,
		Science:    scores.Science,
		Social:     scores.Social,
		Computer:   scores.Computer,
		Total:      total,
		Percentage: percentage,
		Grade:      GradeFor(percentage),
		Timestamp:  time.Now(),
	}
}

// Percentage converts a total out of 600 into a percentage rounded to two
// decimals.
func Percentage(total int) float64 {
	return math.Round(float64(total)/float64(SubjectCount*100)*100*100) / 100
}

// GradeFor maps a percentage onto its grade band.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "O"
	case percentage >= 75:
		return "A"
	case percentage >= 60:
		return "B"
	case percentage >= 50:
		return "C"
	case percentage >= 40:
		return "D"
	default:
		return "F"
	}
}

// ScoreVector returns the six subject scores in store column order, as used
// by the trend predictor.
func (r *Report) ScoreVector() [SubjectCount]float64 {
	return [SubjectCount]float64{
		float64(r.Tamil),
		float64(r.English),
		float64(r.Maths),
		float64(r.Science),
		float64(r.Social),
		float64(r.Computer),
	}
}
