package handler

import (
	"errors"
	"log"
	"net/http"

	"helpdesk/backend/internal/api/middleware"
	"helpdesk/backend/internal/auth"
	"helpdesk/backend/internal/config"
	"helpdesk/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	UserType string `json:"user_type" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	RollNo   string `json:"roll_no"`
}

type signupRequest struct {
	UserType       string `json:"user_type" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	RollNo         string `json:"roll_no"`
	Designation    string `json:"designation"`
	ContactNumber  string `json:"contact_number"`
	DepartmentName string `json:"department_name"`
}

// Login verifies credentials and hands back the session token plus the
// role's landing route.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"Missing required fields"}})
		return
	}

	session, token, err := h.Auth.Authenticate(auth.Credentials{
		Role:     req.UserType,
		Email:    req.Email,
		Password: req.Password,
		RollNo:   req.RollNo,
	})
	if err != nil {
		var verr *auth.ValidationError
		var aerr *auth.AuthError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Reasons})
		case errors.As(err, &aerr):
			c.JSON(http.StatusUnauthorized, gin.H{"errors": aerr.Reasons})
		default:
			log.Printf("ERROR: Login failed for %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{"Something went wrong"}})
		}
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"redirect": auth.LandingPath(session.Role),
		"role":     session.Role,
		"name":     session.Name,
		"email":    session.Email,
	})
}

// Signup creates the account and logs it straight in, exactly like the
// original signup page.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"Missing required fields"}})
		return
	}

	session, token, err := h.Auth.Signup(auth.SignupRequest{
		Role:           req.UserType,
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		RollNo:         req.RollNo,
		Designation:    req.Designation,
		ContactNumber:  req.ContactNumber,
		DepartmentName: req.DepartmentName,
	})
	if err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Reasons})
			return
		}
		// Duplicate email lands here as the store's uniqueness violation.
		log.Printf("ERROR: Signup failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{"Could not create account"}})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"token":    token,
		"redirect": auth.LandingPath(session.Role),
		"role":     session.Role,
		"name":     session.Name,
		"email":    session.Email,
	})
}

// Logout revokes the session unconditionally and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session != nil {
		if err := h.Auth.Logout(session.ID); err != nil {
			log.Printf("ERROR: Failed to revoke session %s: %v", session.ID, err)
		}
	}
	c.SetCookie("session", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": "/login"})
}

// Me returns the caller's profile row, which every home page renders at
// the top.
func (h *Handler) Me(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var profile any
	var err error
	switch session.Role {
	case models.RoleStudent:
		profile, err = h.Storage.FindStudentByEmail(session.Email)
	case models.RoleTeacher:
		profile, err = h.Storage.FindTeacherByEmail(session.Email)
	case models.RoleAdmin:
		profile, err = h.Storage.FindAdminByEmail(session.Email)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": session.Role, "profile": profile})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie("session", token, int(config.SessionTTL.Seconds()), "/", "", false, true)
}
