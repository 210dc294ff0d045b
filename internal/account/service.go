package account

import (
	"context"
	"errors"
	"time"

	"github.com/steffin35/student-report-app/internal/auth"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrDuplicate = errors.New("account already exists")
	ErrForbidden = errors.New("operation not permitted")
)

type CreateStudentInput struct {
	RollNo   string
	Password string
	FullName string
	Class    string
	Section  string
}

type CreateTeacherInput struct {
	Username string
	Password string
	FullName string
	IsAdmin  bool
}

type Service interface {
	AuthenticateTeacher(ctx context.Context, username, password string) (*auth.Session, error)
	AuthenticateStudent(ctx context.Context, rollNo, password string) (*auth.Session, error)
	CreateStudent(ctx context.Context, input CreateStudentInput) (*Student, error)
	CreateTeacher(ctx context.Context, session *auth.Session, input CreateTeacherInput) (*Teacher, error)
	GetStudent(ctx context.Context, rollNo string) (*Student, error)
	GetAllStudents(ctx context.Context) ([]Student, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
	SetParentEmail(ctx context.Context, rollNo, email string) error
	GetParentEmail(ctx context.Context, rollNo string) (string, error)
	ValidateParentEmail(ctx context.Context, rollNo, email string) (bool, error)
}

type service struct {
	repo   *Repository
	hasher auth.PasswordHasher
}

func NewService(repo *Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

// AuthenticateTeacher returns a teacher session on a hash match. Bad
// credentials and unknown usernames both come back as ErrNotFound.
func (s *service) AuthenticateTeacher(ctx context.Context, username, password string) (*auth.Session, error) {
	teacher, err := s.repo.GetTeacherByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(teacher.Password, password) {
		return nil, ErrNotFound
	}
	return &auth.Session{
		Role:    auth.RoleTeacher,
		Subject: teacher.Username,
		Name:    teacher.FullName,
		IsAdmin: teacher.IsAdmin,
	}, nil
}

func (s *service) AuthenticateStudent(ctx context.Context, rollNo, password string) (*auth.Session, error) {
	student, err := s.repo.GetStudent(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(student.Password, password) {
		return nil, ErrNotFound
	}
	return &auth.Session{
		Role:    auth.RoleStudent,
		Subject: student.RollNo,
		Name:    student.FullName,
	}, nil
}

func (s *service) CreateStudent(ctx context.Context, input CreateStudentInput) (*Student, error) {
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	student := &Student{
		RollNo:    input.RollNo,
		Password:  hashed,
		FullName:  input.FullName,
		Class:     input.Class,
		Section:   input.Section,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// CreateTeacher is admin-only; the capability check lives here at the service
// boundary, not in the presentation layer.
func (s *service) CreateTeacher(ctx context.Context, session *auth.Session, input CreateTeacherInput) (*Teacher, error) {
	if session == nil || !session.IsAdmin {
		return nil, ErrForbidden
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	teacher := &Teacher{
		Username:  input.Username,
		Password:  hashed,
		FullName:  input.FullName,
		CreatedAt: time.Now(),
		IsAdmin:   input.IsAdmin,
	}
	if err := s.repo.CreateTeacher(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

func (s *service) GetStudent(ctx context.Context, rollNo string) (*Student, error) {
	return s.repo.GetStudent(ctx, rollNo)
}

func (s *service) GetAllStudents(ctx context.Context) ([]Student, error) {
	return s.repo.ListStudents(ctx)
}

func (s *service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return s.repo.ListTeachers(ctx)
}

// SetParentEmail replaces the link for a roll number; an empty email removes
// the link entirely.
func (s *service) SetParentEmail(ctx context.Context, rollNo, email string) error {
	if email == "" {
		return s.repo.DeleteParentLink(ctx, rollNo)
	}
	return s.repo.ReplaceParentLink(ctx, rollNo, email)
}

func (s *service) GetParentEmail(ctx context.Context, rollNo string) (string, error) {
	return s.repo.GetParentEmail(ctx, rollNo)
}

func (s *service) ValidateParentEmail(ctx context.Context, rollNo, email string) (bool, error) {
	return s.repo.HasParentLink(ctx, rollNo, email)
}
