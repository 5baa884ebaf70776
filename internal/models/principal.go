package models

import "time"

// Roles accepted by login/signup. The original schema keeps each role in
// its own table, so role is not a column anywhere; it only lives in the
// session and in the user_type form field.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Student is a principal who files complaints. RollNo is a fixed
// 10-character campus identifier and participates in login lookup.
type Student struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	RollNo       string `gorm:"size:10" json:"roll_no"`
}

// Teacher is a principal complaints are filed against.
type Teacher struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `json:"name"`
	Email         string `gorm:"uniqueIndex" json:"email"`
	PasswordHash  string `json:"-"`
	Designation   string `json:"designation"`
	ContactNumber string `json:"contact_number"`
}

// Admin oversees all complaints and the detector service.
type Admin struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `json:"name"`
	Email          string `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string `json:"-"`
	ContactNumber  string `json:"contact_number"`
	DepartmentName string `json:"department_name"`
}

// Session is the authenticated context established after login or signup.
// It is always passed explicitly through the request context, never read
// from ambient state. The ID doubles as the Redis revocation key.
type Session struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
