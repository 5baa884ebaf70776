package models

import (
	"time"

	"github.com/lib/pq"
)

// Complaint statuses. Pending is the only state that still accepts a
// teacher action; Accepted and Rejected are terminal.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// Complaint is a record filed by a student against a teacher. TeacherID
// is resolved at filing time; TeacherName is kept alongside it because the
// listing pages scope and display by name.
type Complaint struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StudentEmail string         `gorm:"index" json:"student_email"`
	TeacherID    uint           `gorm:"index" json:"teacher_id"`
	TeacherName  string         `gorm:"index" json:"teacher_name"`
	Complaint    string         `json:"complaint"`
	ProofFiles   pq.StringArray `gorm:"type:text[]" json:"proof_files"`
	CreatedAt    time.Time      `json:"created_at"`
	Status       string         `json:"status"`
}

// Terminal reports whether the complaint has already been acted on.
func (c *Complaint) Terminal() bool {
	return c.Status == StatusAccepted || c.Status == StatusRejected
}
