package meeting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/metrics"
	"github.com/steffin35/student-report-app/internal/notify"
)

var (
	ErrNotFound  = errors.New("meeting request not found")
	ErrForbidden = errors.New("operation not permitted")
	// ErrAlreadyDecided guards the state machine: Approved and Rejected are
	// terminal, so a decided request cannot be re-decided.
	ErrAlreadyDecided = errors.New("meeting request already decided")
	ErrInvalidStatus  = errors.New("status must be Approved or Rejected")
)

// ParentEmails resolves the parent email linked to a roll number, for
// decision notifications.
type ParentEmails interface {
	GetParentEmail(ctx context.Context, rollNo string) (string, error)
}

type Service interface {
	Create(ctx context.Context, session *auth.Session, meetingDate, teacherUsername string) (*Request, error)
	Decide(ctx context.Context, session *auth.Session, id int64, status, notes string) (*Request, error)
	ListForTeacher(ctx context.Context, session *auth.Session, all bool) ([]RequestWithStudent, error)
	LatestForStudent(ctx context.Context, session *auth.Session, rollNo string) (*Request, error)
}

type service struct {
	repo     *Repository
	emails   ParentEmails
	producer *notify.Producer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(repo *Repository, emails ParentEmails, producer *notify.Producer, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		emails:   emails,
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// Create records a parent's request for the student in their session.
func (s *service) Create(ctx context.Context, session *auth.Session, meetingDate, teacherUsername string) (*Request, error) {
	if session == nil || session.Role != auth.RoleParent {
		return nil, ErrForbidden
	}

	request := &Request{
		RollNo:          session.Subject,
		MeetingDate:     meetingDate,
		RequestedAt:     time.Now(),
		Status:          StatusPending,
		TeacherUsername: teacherUsername,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Decide moves a pending request into a terminal state and notifies the
// parent best-effort.
func (s *service) Decide(ctx context.Context, session *auth.Session, id int64, status, notes string) (*Request, error) {
	if session == nil || session.Role != auth.RoleTeacher {
		return nil, ErrForbidden
	}
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != StatusPending {
		return nil, ErrAlreadyDecided
	}

	decidedAt := time.Now()
	if err := s.repo.UpdateStatus(ctx, id, status, notes, decidedAt); err != nil {
		return nil, err
	}

	request.Status = status
	request.TeacherNotes = notes
	request.ApprovalTimestamp = &decidedAt

	s.metrics.Domain.RecordMeetingDecision(ctx, status)
	s.notifyParent(ctx, request)

	return request, nil
}

func (s *service) ListForTeacher(ctx context.Context, session *auth.Session, all bool) ([]RequestWithStudent, error) {
	if session == nil || session.Role != auth.RoleTeacher {
		return nil, ErrForbidden
	}

	username := session.Subject
	if all {
		username = ""
	}
	return s.repo.ListForTeacher(ctx, username)
}

// LatestForStudent lets teachers see any student's latest request; students
// and parents only their own.
func (s *service) LatestForStudent(ctx context.Context, session *auth.Session, rollNo string) (*Request, error) {
	if session == nil {
		return nil, ErrForbidden
	}
	if session.Role != auth.RoleTeacher && session.Subject != rollNo {
		return nil, ErrForbidden
	}
	return s.repo.LatestForStudent(ctx, rollNo)
}

// notifyParent publishes the decision event. Failures are logged, never
// surfaced: the decision itself has already committed.
func (s *service) notifyParent(ctx context.Context, request *Request) {
	if s.producer == nil {
		return
	}

	email, err := s.emails.GetParentEmail(ctx, request.RollNo)
	if err != nil {
		email = ""
	}

	if err := s.producer.Publish(notify.MeetingDecision{
		RequestID:   request.ID,
		RollNo:      request.RollNo,
		Status:      request.Status,
		Notes:       request.TeacherNotes,
		ParentEmail: email,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish meeting decision", "request_id", request.ID, "error", err)
	}
}
