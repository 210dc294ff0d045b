package report

import (
	"context"
	"errors"

	"github.com/steffin35/student-report-app/internal/account"
	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/export"
	"github.com/steffin35/student-report-app/internal/metrics"
	"github.com/steffin35/student-report-app/internal/predict"
)

var (
	ErrNotFound  = errors.New("report not found")
	ErrForbidden = errors.New("operation not permitted")
	// ErrUnknownStudent means marks were entered for a roll number with no
	// student account.
	ErrUnknownStudent = errors.New("unknown student")
)

// StudentDirectory resolves a roll number to a student identity. Reports and
// accounts live in separate stores with no cross-store foreign key, so this
// lookup is best-effort by design.
type StudentDirectory interface {
	GetStudent(ctx context.Context, rollNo string) (*account.Student, error)
}

type Service interface {
	Save(ctx context.Context, session *auth.Session, rollNo string, scores Scores) (*Report, error)
	Latest(ctx context.Context, session *auth.Session, rollNo string) (*Report, error)
	History(ctx context.Context, session *auth.Session, rollNo string) ([]Report, error)
	All(ctx context.Context) ([]Report, error)
	Predict(ctx context.Context, session *auth.Session, rollNo string) (float64, error)
	PDF(ctx context.Context, session *auth.Session, rollNo string) ([]byte, error)
}

type service struct {
	repo     *Repository
	students StudentDirectory
	metrics  *metrics.Metrics
}

func NewService(repo *Repository, students StudentDirectory, m *metrics.Metrics) Service {
	return &service{
		repo:     repo,
		students: students,
		metrics:  m,
	}
}

// Save appends a new report for a student. The student identity (name, class,
// section) is resolved from the accounts store at save time.
func (s *service) Save(ctx context.Context, session *auth.Session, rollNo string, scores Scores) (*Report, error) {
	if session == nil || session.Role != auth.RoleTeacher {
		return nil, ErrForbidden
	}

	student, err := s.students.GetStudent(ctx, rollNo)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrUnknownStudent
		}
		return nil, err
	}

	report := New(student.FullName, student.RollNo, student.Class, student.Section, scores)
	if err := s.repo.Save(ctx, report); err != nil {
		return nil, err
	}

	s.metrics.Domain.RecordReportSaved(ctx)
	return report, nil
}

func (s *service) Latest(ctx context.Context, session *auth.Session, rollNo string) (*Report, error) {
	if err := canView(session, rollNo); err != nil {
		return nil, err
	}
	return s.repo.Latest(ctx, rollNo)
}

// History returns a student's reports oldest first.
func (s *service) History(ctx context.Context, session *auth.Session, rollNo string) ([]Report, error) {
	if err := canView(session, rollNo); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, rollNo)
}

func (s *service) All(ctx context.Context) ([]Report, error) {
	return s.repo.All(ctx)
}

// Predict forecasts the next term's percentage from the student's history.
// Degrades to predict.ErrInsufficientHistory / predict.ErrUnavailable rather
// than failing the caller.
func (s *service) Predict(ctx context.Context, session *auth.Session, rollNo string) (float64, error) {
	if err := canView(session, rollNo); err != nil {
		return 0, err
	}

	history, err := s.repo.History(ctx, rollNo)
	if err != nil {
		return 0, err
	}

	samples := make([]predict.Sample, len(history))
	for i, rep := range history {
		samples[i] = predict.Sample{
			Scores:     rep.ScoreVector(),
			Percentage: rep.Percentage,
		}
	}

	prediction, err := predict.NextPercentage(samples)
	s.metrics.Domain.RecordPrediction(ctx, err == nil)
	return prediction, err
}

func (s *service) PDF(ctx context.Context, session *auth.Session, rollNo string) ([]byte, error) {
	latest, err := s.Latest(ctx, session, rollNo)
	if err != nil {
		return nil, err
	}

	return export.ReportCardPDF(export.ReportCard{
		Name:    latest.Name,
		RollNo:  latest.RollNo,
		Class:   latest.Class,
		Section: latest.Section,
		Date:    latest.Timestamp,
		Subjects: []export.Subject{
			{Name: "Tamil", Score: latest.Tamil},
			{Name: "English", Score: latest.English},
			{Name: "Maths", Score: latest.Maths},
			{Name: "Science", Score: latest.Science},
			{Name: "Social", Score: latest.Social},
			{Name: "Computer", Score: latest.Computer},
		},
		Total:      latest.Total,
		Percentage: latest.Percentage,
		Grade:      latest.Grade,
	})
}

// canView lets teachers see any report while students and parents are limited
// to their own roll number.
func canView(session *auth.Session, rollNo string) error {
	if session == nil {
		return ErrForbidden
	}
	if session.Role == auth.RoleTeacher {
		return nil
	}
	if session.Subject != rollNo {
		return ErrForbidden
	}
	return nil
}
