package meeting

import (
	"time"

	"github.com/uptrace/bun"
)

// Meeting request states. Pending is the initial state; Approved and Rejected
// are terminal.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Request is a parent-initiated scheduling record routed to one teacher.
// Requests are never deleted; only their status changes.
type Request struct {
	bun.BaseModel `bun:"table:meeting_requests,alias:mr"`

	ID                int64      `bun:"id,pk,autoincrement" json:"id"`
	RollNo            string     `bun:"roll_no,notnull" json:"rollNo"`
	MeetingDate       string     `bun:"meeting_date,notnull" json:"meetingDate"`
	RequestedAt       time.Time  `bun:"requested_at,notnull" json:"requestedAt"`
	Status            string     `bun:"status,notnull,default:'Pending'" json:"status"`
	TeacherNotes      string     `bun:"teacher_notes,nullzero" json:"teacherNotes,omitempty"`
	ApprovalTimestamp *time.Time `bun:"approval_timestamp,nullzero" json:"approvalTimestamp,omitempty"`
	TeacherUsername   string     `bun:"teacher_username,nullzero" json:"teacherUsername,omitempty"`
}

// RequestWithStudent is a request joined with the student's display name for
// teacher listings.
type RequestWithStudent struct {
	Request `bun:",extend"`

	StudentName string `bun:"student_name" json:"studentName"`
}
