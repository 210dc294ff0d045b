package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/steffin35/student-report-app/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyHasher(t *testing.T) {
	hasher := auth.LegacyHasher{}

	hash, err := hasher.Hash("Lam123")
	require.NoError(t, err)
	// Unsalted digest: hashing the same input twice gives the same value.
	again, err := hasher.Hash("Lam123")
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	assert.True(t, hasher.Verify(hash, "Lam123"))
	assert.False(t, hasher.Verify(hash, "lam123"))
	assert.False(t, hasher.Verify(hash, ""))
}

func TestBcryptHasher(t *testing.T) {
	hasher := auth.BcryptHasher{}

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, hasher.Verify(hash, "secret123"))
	assert.False(t, hasher.Verify(hash, "secret124"))
}

func TestNewHasher(t *testing.T) {
	for _, scheme := range []string{"", "legacy", "bcrypt"} {
		_, err := auth.NewHasher(scheme)
		assert.NoError(t, err, scheme)
	}

	_, err := auth.NewHasher("argon2")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	session := &auth.Session{
		Role:    auth.RoleTeacher,
		Subject: "mrs.iyer",
		Name:    "Mrs. Iyer",
		IsAdmin: true,
	}

	token, err := auth.GenerateToken(session, "test-secret", time.Hour)
	require.NoError(t, err)

	parsed, err := auth.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, session, parsed)
}

func TestParseToken_Invalid(t *testing.T) {
	session := &auth.Session{Role: auth.RoleStudent, Subject: "R001", Name: "Asha"}

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := auth.GenerateToken(session, "right-secret", time.Hour)
		require.NoError(t, err)

		_, err = auth.ParseToken(token, "wrong-secret")
		assert.True(t, errors.Is(err, auth.ErrInvalidToken))
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := auth.GenerateToken(session, "test-secret", -time.Minute)
		require.NoError(t, err)

		_, err = auth.ParseToken(token, "test-secret")
		assert.True(t, errors.Is(err, auth.ErrInvalidToken))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := auth.ParseToken("not.a.token", "test-secret")
		assert.True(t, errors.Is(err, auth.ErrInvalidToken))
	})
}

func TestOTPIssuer(t *testing.T) {
	issuer := auth.NewOTPIssuer("base32secret3232")

	code, err := issuer.Code()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.True(t, issuer.Verify(code), "the current code verifies within its window")
	assert.False(t, issuer.Verify("000000"))
	assert.False(t, issuer.Verify(""))
}
