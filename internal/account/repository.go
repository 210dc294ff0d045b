package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/steffin35/student-report-app/internal/db"
	"github.com/steffin35/student-report-app/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) *Repository {
	return &Repository{
		db:      database,
		metrics: m,
	}
}

func (r *Repository) GetTeacherByUsername(ctx context.Context, username string) (*Teacher, error) {
	start := time.Now()
	teacher := new(Teacher)
	err := r.db.NewSelect().
		Model(teacher).
		Where("username = ?", username).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "teachers", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return teacher, nil
}

func (r *Repository) CreateTeacher(ctx context.Context, teacher *Teacher) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(teacher).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "teachers", time.Since(start), err)

	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repository) ListTeachers(ctx context.Context) ([]Teacher, error) {
	start := time.Now()
	var teachers []Teacher
	err := r.db.NewSelect().
		Model(&teachers).
		Order("username ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "teachers", time.Since(start), err)

	return teachers, err
}

func (r *Repository) GetStudent(ctx context.Context, rollNo string) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := r.db.NewSelect().
		Model(student).
		Where("roll_no = ?", rollNo).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *Repository) CreateStudent(ctx context.Context, student *Student) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(student).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "students", time.Since(start), err)

	if db.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	start := time.Now()
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Order("class ASC", "section ASC", "roll_no ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	return students, err
}

// ReplaceParentLink is a delete-then-insert upsert: at most one parent email
// exists per roll number.
func (r *Repository) ReplaceParentLink(ctx context.Context, rollNo, email string) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ParentLink)(nil)).
			Where("student_roll_no = ?", rollNo).
			Exec(ctx); err != nil {
			return err
		}
		link := &ParentLink{
			StudentRollNo: rollNo,
			ParentEmail:   email,
			CreatedAt:     time.Now(),
		}
		_, err := tx.NewInsert().Model(link).Exec(ctx)
		return err
	})

	r.metrics.Database.RecordQuery(ctx, "upsert", "parent_accounts", time.Since(start), err)

	return err
}

func (r *Repository) DeleteParentLink(ctx context.Context, rollNo string) error {
	start := time.Now()
	_, err := r.db.NewDelete().
		Model((*ParentLink)(nil)).
		Where("student_roll_no = ?", rollNo).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "parent_accounts", time.Since(start), err)

	return err
}

func (r *Repository) GetParentEmail(ctx context.Context, rollNo string) (string, error) {
	start := time.Now()
	link := new(ParentLink)
	err := r.db.NewSelect().
		Model(link).
		Where("student_roll_no = ?", rollNo).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "parent_accounts", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return link.ParentEmail, nil
}

func (r *Repository) HasParentLink(ctx context.Context, rollNo, email string) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*ParentLink)(nil)).
		Where("student_roll_no = ?", rollNo).
		Where("parent_email = ?", email).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "parent_accounts", time.Since(start), err)

	return exists, err
}
