package meeting

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

func (r *Repository) Create(ctx context.Context, request *Request) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(request).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "meeting_requests", time.Since(start), err)

	return err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Request, error) {
	start := time.Now()
	request := new(Request)
	err := r.db.NewSelect().
		Model(request).
		Where("mr.id = ?", id).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "meeting_requests", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

// UpdateStatus records a teacher's decision: status, notes and the approval
// timestamp in one statement.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status, notes string, decidedAt time.Time) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model((*Request)(nil)).
		Set("status = ?", status).
		Set("teacher_notes = ?", notes).
		Set("approval_timestamp = ?", decidedAt).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "meeting_requests", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForTeacher returns requests joined with student names, newest first.
// An empty username returns every request system-wide.
func (r *Repository) ListForTeacher(ctx context.Context, teacherUsername string) ([]RequestWithStudent, error) {
	start := time.Now()
	var requests []RequestWithStudent
	q := r.db.NewSelect().
		Model((*Request)(nil)).
		ColumnExpr("mr.*").
		ColumnExpr("s.full_name AS student_name").
		Join("JOIN students AS s ON s.roll_no = mr.roll_no").
		OrderExpr("mr.requested_at DESC")
	if teacherUsername != "" {
		q = q.Where("mr.teacher_username = ?", teacherUsername)
	}
	err := q.Scan(ctx, &requests)

	r.metrics.Database.RecordQuery(ctx, "select", "meeting_requests", time.Since(start), err)

	return requests, err
}

func (r *Repository) LatestForStudent(ctx context.Context, rollNo string) (*Request, error) {
	start := time.Now()
	request := new(Request)
	err := r.db.NewSelect().
		Model(request).
		Where("mr.roll_no = ?", rollNo).
		Order("requested_at DESC").
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "meeting_requests", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}
