package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type DomainMetrics struct {
	logins           metric.Int64Counter
	reportsSaved     metric.Int64Counter
	predictions      metric.Int64Counter
	meetingDecisions metric.Int64Counter
}

func NewDomainMetrics(meter metric.Meter) (*DomainMetrics, error) {
	dm := &DomainMetrics{}

	var err error

	dm.logins, err = meter.Int64Counter(
		"app.logins",
		metric.WithDescription("Number of successful logins by role"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, err
	}

	dm.reportsSaved, err = meter.Int64Counter(
		"app.reports.saved",
		metric.WithDescription("Number of report cards saved"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	dm.predictions, err = meter.Int64Counter(
		"app.predictions",
		metric.WithDescription("Number of trend predictions computed"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, err
	}

	dm.meetingDecisions, err = meter.Int64Counter(
		"app.meetings.decisions",
		metric.WithDescription("Number of meeting requests approved or rejected"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	return dm, nil
}

func (dm *DomainMetrics) RecordLogin(ctx context.Context, role string) {
	if dm == nil || dm.logins == nil {
		return
	}
	dm.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("app.role", role)))
}

func (dm *DomainMetrics) RecordReportSaved(ctx context.Context) {
	if dm == nil || dm.reportsSaved == nil {
		return
	}
	dm.reportsSaved.Add(ctx, 1)
}

func (dm *DomainMetrics) RecordPrediction(ctx context.Context, ok bool) {
	if dm == nil || dm.predictions == nil {
		return
	}
	dm.predictions.Add(ctx, 1, metric.WithAttributes(attribute.Bool("app.prediction.ok", ok)))
}

func (dm *DomainMetrics) RecordMeetingDecision(ctx context.Context, status string) {
	if dm == nil || dm.meetingDecisions == nil {
		return
	}
	dm.meetingDecisions.Add(ctx, 1, metric.WithAttributes(attribute.String("app.meeting.status", status)))
}
