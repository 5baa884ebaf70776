// Package complaint implements the complaint lifecycle: students file
// Pending complaints, the named teacher resolves them to Accepted or
// Rejected, and resolved complaints stay resolved.
package complaint

import (
	"errors"
	"strings"

	"helpdesk/backend/internal/config"
	"helpdesk/backend/internal/models"
	"helpdesk/backend/internal/notify"
	"helpdesk/backend/internal/storage"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"

	ViewAll    = "all"
	ViewUnread = "unread"
)

var (
	ErrNotFound        = errors.New("complaint not found")
	ErrInvalidAction   = errors.New("invalid action")
	ErrNotOwner        = errors.New("complaint is assigned to another teacher")
	ErrAlreadyResolved = errors.New("complaint has already been resolved")
	ErrUnknownTeacher  = errors.New("unknown teacher")
	ErrTooShort        = errors.New("complaint must be at least 3 words")
)

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Notifier notify.Notifier
}

// NewService creates a new complaint service. A nil notifier disables
// notifications.
func NewService(s storage.Storage, n notify.Notifier) *Service {
	if n == nil {
		n = notify.Noop{}
	}
	return &Service{Storage: s, Notifier: n}
}

// ValidateNew runs the submission checks without persisting anything.
// Callers that store proof files before inserting the row use it to
// reject a doomed submission before any file is written.
func (s *Service) ValidateNew(teacherName, text string) error {
	if len(strings.Fields(text)) < config.MinComplaintWords {
		return ErrTooShort
	}

	teacher, err := s.Storage.FindTeacherByName(teacherName)
	if err != nil {
		return err
	}
	if teacher == nil {
		return ErrUnknownTeacher
	}
	return nil
}

// File creates a new Pending complaint. The teacher is resolved against
// the teachers table so the row carries an immutable teacher id instead
// of trusting the submitted display name.
func (s *Service) File(studentEmail, teacherName, text string, proofRefs []string) (*models.Complaint, error) {
	if len(strings.Fields(text)) < config.MinComplaintWords {
		return nil, ErrTooShort
	}

	teacher, err := s.Storage.FindTeacherByName(teacherName)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, ErrUnknownTeacher
	}

	complaint := &models.Complaint{
		StudentEmail: studentEmail,
		TeacherID:    teacher.ID,
		TeacherName:  teacher.Name,
		Complaint:    text,
		ProofFiles:   proofRefs,
		Status:       models.StatusPending,
	}
	if err := s.Storage.SaveComplaint(complaint); err != nil {
		return nil, err
	}

	s.Notifier.ComplaintFiled(complaint)
	return complaint, nil
}

// Resend inserts a brand-new Pending row duplicating the original
// content. The old row is not referenced or superseded; a resent
// complaint shows up twice in every listing.
func (s *Service) Resend(studentEmail, teacherName, text string, proofRefs []string) (*models.Complaint, error) {
	teacher, err := s.Storage.FindTeacherByName(teacherName)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, ErrUnknownTeacher
	}

	complaint := &models.Complaint{
		StudentEmail: studentEmail,
		TeacherID:    teacher.ID,
		TeacherName:  teacher.Name,
		Complaint:    text,
		ProofFiles:   proofRefs,
		Status:       models.StatusPending,
	}
	if err := s.Storage.SaveComplaint(complaint); err != nil {
		return nil, err
	}

	s.Notifier.ComplaintFiled(complaint)
	return complaint, nil
}

// Transition resolves a Pending complaint to Accepted or Rejected. Only
// the teacher the complaint was filed against may act on it, and a
// resolved complaint rejects any further transition instead of being
// overwritten. The acting teacher is resolved by email and matched
// against the complaint's teacher id; display names are not unique.
func (s *Service) Transition(id uint, actingTeacherEmail, action string) (string, error) {
	if action != ActionAccept && action != ActionReject {
		return "", ErrInvalidAction
	}

	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return "", err
	}
	if complaint == nil {
		return "", ErrNotFound
	}

	acting, err := s.Storage.FindTeacherByEmail(actingTeacherEmail)
	if err != nil {
		return "", err
	}
	if acting == nil || acting.ID != complaint.TeacherID {
		return "", ErrNotOwner
	}
	if complaint.Terminal() {
		return "", ErrAlreadyResolved
	}

	status := models.StatusRejected
	if action == ActionAccept {
		status = models.StatusAccepted
	}
	if err := s.Storage.UpdateComplaintStatus(id, status); err != nil {
		return "", err
	}

	complaint.Status = status
	s.Notifier.ComplaintResolved(complaint)
	return status, nil
}

// ListForTeacher returns the teacher's complaints newest first. The
// unread view narrows to rows still Pending.
func (s *Service) ListForTeacher(teacherName, view string) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsForTeacher(teacherName, view == ViewUnread)
}

// ListForStudent returns the student's own complaint history, newest first.
func (s *Service) ListForStudent(studentEmail string) ([]models.Complaint, error) {
	return s.Storage.ListComplaintsForStudent(studentEmail)
}

// ListAll returns every complaint, newest first. Admin view only.
func (s *Service) ListAll() ([]models.Complaint, error) {
	return s.Storage.ListAllComplaints()
}

// PendingCount counts the complaints still awaiting action.
func PendingCount(complaints []models.Complaint) int {
	count := 0
	for _, c := range complaints {
		if c.Status == models.StatusPending {
			count++
		}
	}
	return count
}
