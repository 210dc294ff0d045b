package meeting_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/steffin35/student-report-app/internal/account"
	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/meeting"
	"github.com/steffin35/student-report-app/internal/metrics"
	"github.com/steffin35/student-report-app/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newFixture(t *testing.T) (meeting.Service, *meeting.Repository, *bun.DB) {
	t.Helper()

	store := testdb.NewAccountsStore(t)
	mockMetrics := metrics.NewMock()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	accountRepo := account.NewRepository(store, mockMetrics)
	accountService := account.NewService(accountRepo, auth.LegacyHasher{})

	repo := meeting.NewRepository(store, mockMetrics)
	// nil producer: notifications disabled, as when no NATS URL is configured
	svc := meeting.NewService(repo, accountService, nil, mockMetrics, logger)
	return svc, repo, store
}

func addStudent(t *testing.T, store *bun.DB, rollNo, name string) {
	t.Helper()
	student := &account.Student{
		RollNo:    rollNo,
		Password:  "hash",
		FullName:  name,
		Class:     "10",
		Section:   "A",
		CreatedAt: time.Now(),
	}
	_, err := store.NewInsert().Model(student).Exec(context.Background())
	require.NoError(t, err)
}

func parentSession(rollNo string) *auth.Session {
	return &auth.Session{Role: auth.RoleParent, Subject: rollNo, Name: "Parent"}
}

func teacherSession(username string) *auth.Session {
	return &auth.Session{Role: auth.RoleTeacher, Subject: username, Name: "Teacher"}
}

func TestMeetingLifecycle(t *testing.T) {
	svc, _, store := newFixture(t)
	ctx := context.Background()

	addStudent(t, store, "R001", "Asha Kumar")

	created, err := svc.Create(ctx, parentSession("R001"), "2026-09-15", "mrs.iyer")
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusPending, created.Status)
	assert.Nil(t, created.ApprovalTimestamp)

	decided, err := svc.Decide(ctx, teacherSession("mrs.iyer"), created.ID, meeting.StatusApproved, "See you at 4pm")
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusApproved, decided.Status)

	latest, err := svc.LatestForStudent(ctx, parentSession("R001"), "R001")
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusApproved, latest.Status)
	assert.Equal(t, "See you at 4pm", latest.TeacherNotes)
	require.NotNil(t, latest.ApprovalTimestamp)
	assert.False(t, latest.ApprovalTimestamp.IsZero())
}

func TestDecide_TerminalStatesAreFinal(t *testing.T) {
	svc, _, store := newFixture(t)
	ctx := context.Background()

	addStudent(t, store, "R001", "Asha Kumar")

	created, err := svc.Create(ctx, parentSession("R001"), "2026-09-15", "mrs.iyer")
	require.NoError(t, err)

	_, err = svc.Decide(ctx, teacherSession("mrs.iyer"), created.ID, meeting.StatusRejected, "")
	require.NoError(t, err)

	_, err = svc.Decide(ctx, teacherSession("mrs.iyer"), created.ID, meeting.StatusApproved, "")
	assert.True(t, errors.Is(err, meeting.ErrAlreadyDecided))
}

func TestDecide_Validation(t *testing.T) {
	svc, _, store := newFixture(t)
	ctx := context.Background()

	addStudent(t, store, "R001", "Asha Kumar")
	created, err := svc.Create(ctx, parentSession("R001"), "2026-09-15", "mrs.iyer")
	require.NoError(t, err)

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := svc.Decide(ctx, teacherSession("mrs.iyer"), created.ID, "Pending", "")
		assert.True(t, errors.Is(err, meeting.ErrInvalidStatus))
	})

	t.Run("UnknownRequest", func(t *testing.T) {
		_, err := svc.Decide(ctx, teacherSession("mrs.iyer"), 9999, meeting.StatusApproved, "")
		assert.True(t, errors.Is(err, meeting.ErrNotFound))
	})

	t.Run("ParentCannotDecide", func(t *testing.T) {
		_, err := svc.Decide(ctx, parentSession("R001"), created.ID, meeting.StatusApproved, "")
		assert.True(t, errors.Is(err, meeting.ErrForbidden))
	})
}

func TestListForTeacher(t *testing.T) {
	svc, repo, store := newFixture(t)
	ctx := context.Background()

	addStudent(t, store, "R001", "Asha Kumar")
	addStudent(t, store, "R002", "Binu Nair")

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i, req := range []struct {
		rollNo  string
		teacher string
	}{
		{"R001", "mrs.iyer"},
		{"R002", "mr.rao"},
		{"R002", "mrs.iyer"},
	} {
		request := &meeting.Request{
			RollNo:          req.rollNo,
			MeetingDate:     "2026-09-15",
			RequestedAt:     base.Add(time.Duration(i) * time.Hour),
			Status:          meeting.StatusPending,
			TeacherUsername: req.teacher,
		}
		require.NoError(t, repo.Create(ctx, request))
	}

	t.Run("FilteredByTeacher", func(t *testing.T) {
		requests, err := svc.ListForTeacher(ctx, teacherSession("mrs.iyer"), false)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		for _, r := range requests {
			assert.Equal(t, "mrs.iyer", r.TeacherUsername)
		}
		// Newest first, joined with the student's name.
		assert.Equal(t, "R002", requests[0].RollNo)
		assert.Equal(t, "Binu Nair", requests[0].StudentName)
		assert.Equal(t, "Asha Kumar", requests[1].StudentName)
	})

	t.Run("AllTeachers", func(t *testing.T) {
		requests, err := svc.ListForTeacher(ctx, teacherSession("mrs.iyer"), true)
		require.NoError(t, err)
		require.Len(t, requests, 3)
		assert.True(t, requests[0].RequestedAt.After(requests[1].RequestedAt))
		assert.True(t, requests[1].RequestedAt.After(requests[2].RequestedAt))
	})
}

func TestLatestForStudent_Ownership(t *testing.T) {
	svc, _, store := newFixture(t)
	ctx := context.Background()

	addStudent(t, store, "R001", "Asha Kumar")
	_, err := svc.Create(ctx, parentSession("R001"), "2026-09-15", "mrs.iyer")
	require.NoError(t, err)

	_, err = svc.LatestForStudent(ctx, parentSession("R002"), "R001")
	assert.True(t, errors.Is(err, meeting.ErrForbidden))

	latest, err := svc.LatestForStudent(ctx, teacherSession("mrs.iyer"), "R001")
	require.NoError(t, err)
	assert.Equal(t, "R001", latest.RollNo)
}
