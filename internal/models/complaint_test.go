package models_test

import (
	"reflect"
	"testing"

	"helpdesk/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComplaintTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{models.StatusPending, false},
		{models.StatusAccepted, true},
		{models.StatusRejected, true},
		{"", false},
	}

	for _, tt := range tests {
		c := models.Complaint{Status: tt.status}
		assert.Equal(t, tt.terminal, c.Terminal(), "status %q", tt.status)
	}
}

// TestComplaintStructTags guards the tags the schema depends on against
// accidental removal during refactoring.
func TestComplaintStructTags(t *testing.T) {
	complaintType := reflect.TypeOf(models.Complaint{})

	idField, found := complaintType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	proofField, found := complaintType.FieldByName("ProofFiles")
	assert.True(t, found)
	assert.Contains(t, proofField.Tag.Get("gorm"), "type:text[]",
		"proof references are stored as an ordered PostgreSQL array, not a joined string")

	teacherField, found := complaintType.FieldByName("TeacherID")
	assert.True(t, found)
	assert.Contains(t, teacherField.Tag.Get("gorm"), "index")
}
