package report

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

// Save appends a new report row. Earlier rows for the same roll number are
// kept; Latest and History decide which rows a reader sees.
func (r *Repository) Save(ctx context.Context, report *Report) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(report).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "reports", time.Since(start), err)

	return err
}

// Latest returns the most recent report for a roll number
func (r *Repository) Latest(ctx context.Context, rollNo string) (*Report, error) {
	start := time.Now()
	report := new(Report)
	err := r.db.NewSelect().
		Model(report).
		Where("roll_no = ?", rollNo).
		Order("timestamp DESC").
		Limit(1).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "reports", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// All returns every report ordered by (class, section, roll_no)
func (r *Repository) All(ctx context.Context) ([]Report, error) {
	start := time.Now()
	var reports []Report
	err := r.db.NewSelect().
		Model(&reports).
		Order("class ASC", "section ASC", "roll_no ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "reports", time.Since(start), err)

	return reports, err
}

// History returns a student's full report history, oldest first. Used by the
// trend predictor.
func (r *Repository) History(ctx context.Context, rollNo string) ([]Report, error) {
	start := time.Now()
	var reports []Report
	err := r.db.NewSelect().
		Model(&reports).
		Where("roll_no = ?", rollNo).
		Order("timestamp ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "reports", time.Since(start), err)

	return reports, err
}
