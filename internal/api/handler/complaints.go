package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"helpdesk/backend/internal/api/middleware"
	"helpdesk/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

type resendRequest struct {
	TeacherName string   `json:"teacher_name" binding:"required"`
	Complaint   string   `json:"complaint" binding:"required"`
	ProofFiles  []string `json:"proof_files"`
}

// ListTeachers feeds the teacher dropdown on the complaint form.
func (h *Handler) ListTeachers(c *gin.Context) {
	names, err := h.Storage.ListTeacherNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list teachers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": names})
}

// SubmitComplaint files a new complaint from the multipart form the
// student chat flow submits. The submission is validated before any
// proof file is written, and stored proofs are removed again if the
// insert still fails, so neither an uploaded file with no complaint row
// nor a row with missing files can be left behind.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	session := middleware.SessionFrom(c)

	teacherName := c.PostForm("teacher")
	text := c.PostForm("complaint")

	if err := h.Complaints.ValidateNew(teacherName, text); err != nil {
		switch {
		case errors.Is(err, complaint.ErrTooShort), errors.Is(err, complaint.ErrUnknownTeacher):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"success": false})
		}
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	var proofRefs []string
	for _, file := range form.File["proof"] {
		ref, err := h.Uploads.Store(file)
		if err != nil {
			log.Printf("ERROR: Failed to store proof %s: %v", file.Filename, err)
			h.removeProofs(proofRefs)
			c.JSON(http.StatusOK, gin.H{"success": false})
			return
		}
		proofRefs = append(proofRefs, ref)
	}

	filed, err := h.Complaints.File(session.Email, teacherName, text, proofRefs)
	if err != nil {
		h.removeProofs(proofRefs)
		switch {
		case errors.Is(err, complaint.ErrTooShort), errors.Is(err, complaint.ErrUnknownTeacher):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"success": false})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": filed.ID})
}

// removeProofs deletes proofs stored for a submission that did not end
// in a complaint row.
func (h *Handler) removeProofs(refs []string) {
	for _, ref := range refs {
		if err := h.Uploads.Remove(ref); err != nil {
			log.Printf("ERROR: Failed to remove orphaned proof %s: %v", ref, err)
		}
	}
}

// ResendComplaint re-files an old complaint as a fresh Pending row,
// reusing the already-stored proof references.
func (h *Handler) ResendComplaint(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Missing required fields"})
		return
	}

	if _, err := h.Complaints.Resend(session.Email, req.TeacherName, req.Complaint, req.ProofFiles); err != nil {
		log.Printf("ERROR: Failed to resend complaint for %s: %v", session.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error resending complaint"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint resent successfully!"})
}

// TransitionComplaint resolves a Pending complaint. The response bodies
// are the short status texts the original action buttons displayed.
func (h *Handler) TransitionComplaint(c *gin.Context) {
	session := middleware.SessionFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid request.")
		return
	}
	action := c.Query("action")

	status, err := h.Complaints.Transition(uint(id), session.Email, action)
	if err != nil {
		switch {
		case errors.Is(err, complaint.ErrInvalidAction):
			c.String(http.StatusBadRequest, "Invalid action.")
		case errors.Is(err, complaint.ErrNotFound):
			c.String(http.StatusNotFound, "Complaint not found.")
		case errors.Is(err, complaint.ErrNotOwner):
			c.String(http.StatusForbidden, "Complaint is assigned to another teacher.")
		case errors.Is(err, complaint.ErrAlreadyResolved):
			c.String(http.StatusConflict, "Action already taken.")
		default:
			c.String(http.StatusInternalServerError, "Error updating complaint status.")
		}
		return
	}

	c.String(http.StatusOK, "Complaint status updated to %s.", status)
}

// TeacherComplaints lists the acting teacher's complaints, scoped by the
// all/unread toggle, with the pending count the header badge shows.
func (h *Handler) TeacherComplaints(c *gin.Context) {
	session := middleware.SessionFrom(c)

	view := c.DefaultQuery("view", complaint.ViewAll)
	complaints, err := h.Complaints.ListForTeacher(session.Name, view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints":    complaints,
		"pending_count": complaint.PendingCount(complaints),
	})
}

// StudentComplaints lists the caller's own complaint history.
func (h *Handler) StudentComplaints(c *gin.Context) {
	session := middleware.SessionFrom(c)

	complaints, err := h.Complaints.ListForStudent(session.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// AdminComplaints lists every complaint, newest first.
func (h *Handler) AdminComplaints(c *gin.Context) {
	complaints, err := h.Complaints.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}
