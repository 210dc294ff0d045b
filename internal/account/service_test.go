package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/steffin35/student-report-app/internal/account"
	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/metrics"
	"github.com/steffin35/student-report-app/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (account.Service, *account.Repository) {
	t.Helper()

	store := testdb.NewAccountsStore(t)
	repo := account.NewRepository(store, metrics.NewMock())
	hasher, err := auth.NewHasher("legacy")
	require.NoError(t, err)
	return account.NewService(repo, hasher), repo
}

func createStudent(t *testing.T, svc account.Service, rollNo string) {
	t.Helper()
	_, err := svc.CreateStudent(context.Background(), account.CreateStudentInput{
		RollNo:   rollNo,
		Password: "secret123",
		FullName: "Asha Kumar",
		Class:    "10",
		Section:  "A",
	})
	require.NoError(t, err)
}

func TestCreateStudent_DuplicateRollNo(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	createStudent(t, svc, "R001")

	_, err := svc.CreateStudent(ctx, account.CreateStudentInput{
		RollNo:   "R001",
		Password: "other456",
		FullName: "Someone Else",
		Class:    "09",
		Section:  "B",
	})
	assert.True(t, errors.Is(err, account.ErrDuplicate))

	students, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1, "store retains exactly one row for the roll number")
}

func TestAuthenticateStudent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	createStudent(t, svc, "R001")

	t.Run("CorrectCredentials", func(t *testing.T) {
		session, err := svc.AuthenticateStudent(ctx, "R001", "secret123")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleStudent, session.Role)
		assert.Equal(t, "R001", session.Subject)
		assert.Equal(t, "Asha Kumar", session.Name)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.AuthenticateStudent(ctx, "R001", "wrong")
		assert.True(t, errors.Is(err, account.ErrNotFound))
	})

	t.Run("UnknownRollNo", func(t *testing.T) {
		_, err := svc.AuthenticateStudent(ctx, "R999", "secret123")
		assert.True(t, errors.Is(err, account.ErrNotFound))
	})
}

func TestAuthenticateTeacher(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	admin := &auth.Session{Role: auth.RoleTeacher, Subject: "root", IsAdmin: true}
	_, err := svc.CreateTeacher(ctx, admin, account.CreateTeacherInput{
		Username: "mrs.iyer",
		Password: "teachme1",
		FullName: "Mrs. Iyer",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	session, err := svc.AuthenticateTeacher(ctx, "mrs.iyer", "teachme1")
	require.NoError(t, err)
	assert.Equal(t, "Mrs. Iyer", session.Name)
	assert.True(t, session.IsAdmin)

	_, err = svc.AuthenticateTeacher(ctx, "mrs.iyer", "nope")
	assert.True(t, errors.Is(err, account.ErrNotFound))
}

func TestCreateTeacher_CapabilityCheck(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("NonAdminForbidden", func(t *testing.T) {
		teacher := &auth.Session{Role: auth.RoleTeacher, Subject: "plain", IsAdmin: false}
		_, err := svc.CreateTeacher(ctx, teacher, account.CreateTeacherInput{
			Username: "new.teacher",
			Password: "teachme1",
			FullName: "New Teacher",
		})
		assert.True(t, errors.Is(err, account.ErrForbidden))
	})

	t.Run("NilSessionForbidden", func(t *testing.T) {
		_, err := svc.CreateTeacher(ctx, nil, account.CreateTeacherInput{
			Username: "new.teacher",
			Password: "teachme1",
			FullName: "New Teacher",
		})
		assert.True(t, errors.Is(err, account.ErrForbidden))
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		admin := &auth.Session{Role: auth.RoleTeacher, Subject: "root", IsAdmin: true}
		_, err := svc.CreateTeacher(ctx, admin, account.CreateTeacherInput{
			Username: "dup.teacher",
			Password: "teachme1",
			FullName: "First",
		})
		require.NoError(t, err)

		_, err = svc.CreateTeacher(ctx, admin, account.CreateTeacherInput{
			Username: "dup.teacher",
			Password: "other456",
			FullName: "Second",
		})
		assert.True(t, errors.Is(err, account.ErrDuplicate))
	})
}

func TestGetAllStudents_Ordering(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, s := range []struct{ roll, class, section string }{
		{"R010", "10", "B"},
		{"R005", "09", "A"},
		{"R002", "10", "A"},
		{"R001", "10", "A"},
	} {
		_, err := svc.CreateStudent(ctx, account.CreateStudentInput{
			RollNo:   s.roll,
			Password: "secret123",
			FullName: "Student " + s.roll,
			Class:    s.class,
			Section:  s.section,
		})
		require.NoError(t, err)
	}

	students, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 4)
	assert.Equal(t, "R005", students[0].RollNo)
	assert.Equal(t, "R001", students[1].RollNo)
	assert.Equal(t, "R002", students[2].RollNo)
	assert.Equal(t, "R010", students[3].RollNo)
}

func TestParentEmail_UpsertReplaces(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	createStudent(t, svc, "R001")

	require.NoError(t, svc.SetParentEmail(ctx, "R001", "a@x.com"))
	require.NoError(t, svc.SetParentEmail(ctx, "R001", "b@y.com"))

	email, err := svc.GetParentEmail(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, "b@y.com", email)

	// Exactly one link row exists; no duplicates accumulate.
	ok, err := repo.HasParentLink(ctx, "R001", "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.HasParentLink(ctx, "R001", "b@y.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParentEmail_EmptyRemovesLink(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	createStudent(t, svc, "R001")

	require.NoError(t, svc.SetParentEmail(ctx, "R001", "a@x.com"))
	require.NoError(t, svc.SetParentEmail(ctx, "R001", ""))

	_, err := svc.GetParentEmail(ctx, "R001")
	assert.True(t, errors.Is(err, account.ErrNotFound))
}

func TestValidateParentEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	createStudent(t, svc, "R001")
	require.NoError(t, svc.SetParentEmail(ctx, "R001", "a@x.com"))

	ok, err := svc.ValidateParentEmail(ctx, "R001", "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ValidateParentEmail(ctx, "R001", "other@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
