package account

import (
	"time"

	"github.com/uptrace/bun"
)

// Teacher is an account in the accounts store. Teachers are created at seed
// time or by an admin and are never deleted in-app.
type Teacher struct {
	bun.BaseModel `bun:"table:teachers"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,unique,notnull" json:"username"`
	Password  string    `bun:"password,notnull" json:"-"`
	FullName  string    `bun:"full_name,notnull" json:"fullName"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	IsAdmin   bool      `bun:"is_admin" json:"isAdmin"`
}

// Student is identified by its roll number, unique across the store.
type Student struct {
	bun.BaseModel `bun:"table:students"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	RollNo    string    `bun:"roll_no,unique,notnull" json:"rollNo"`
	Password  string    `bun:"password,notnull" json:"-"`
	FullName  string    `bun:"full_name,notnull" json:"fullName"`
	Class     string    `bun:"class,notnull" json:"class"`
	Section   string    `bun:"section,notnull" json:"section"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// ParentLink ties at most one parent email to a student. Replacing a link
// deletes the prior row before inserting.
type ParentLink struct {
	bun.BaseModel `bun:"table:parent_accounts"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	StudentRollNo string    `bun:"student_roll_no,unique,notnull" json:"studentRollNo"`
	ParentEmail   string    `bun:"parent_email,notnull" json:"parentEmail"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
}
