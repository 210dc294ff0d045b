package auth

import "context"

// Roles carried by a session.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// Session is the per-request identity passed explicitly to services and
// handlers. Subject is the teacher username or the student roll number
// (parents act on behalf of a student, so their subject is the roll number).
type Session struct {
	Role    string `json:"role"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session from context
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}
