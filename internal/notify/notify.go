// Package notify pushes complaint events to an operations channel.
package notify

import "helpdesk/backend/internal/models"

// Notifier receives complaint lifecycle events. Implementations must not
// fail the request: delivery problems are logged and swallowed.
type Notifier interface {
	ComplaintFiled(complaint *models.Complaint)
	ComplaintResolved(complaint *models.Complaint)
}

// Noop is used when no notification channel is configured.
type Noop struct{}

func (Noop) ComplaintFiled(*models.Complaint)    {}
func (Noop) ComplaintResolved(*models.Complaint) {}
