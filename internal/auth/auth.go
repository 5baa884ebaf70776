// Package auth verifies credentials, creates accounts and issues the
// session tokens every protected endpoint is gated on.
package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"helpdesk/backend/internal/config"
	"helpdesk/backend/internal/models"
	"helpdesk/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ValidationError collects form-level problems found before any store
// access. The messages are rendered to the user as-is.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

// AuthError reports a failed credential check. "Invalid password" and
// "No user found" are deliberately distinct messages, matching the
// behavior existing clients rely on.
type AuthError struct {
	Reasons []string
}

func (e *AuthError) Error() string {
	return strings.Join(e.Reasons, "; ")
}

// Credentials is a login attempt. RollNo is only consulted for students.
type Credentials struct {
	Role     string
	Email    string
	Password string
	RollNo   string
}

// SignupRequest carries the union of the role-specific signup fields.
type SignupRequest struct {
	Role           string
	Name           string
	Email          string
	Password       string
	RollNo         string
	Designation    string
	ContactNumber  string
	DepartmentName string
}

// Service authenticates principals against the storage layer and manages
// their sessions.
type Service struct {
	Storage storage.Storage
	Secret  []byte
	Issuer  string
}

func NewService(s storage.Storage, secret []byte, issuer string) *Service {
	return &Service{Storage: s, Secret: secret, Issuer: issuer}
}

// Authenticate validates the submitted form, looks the principal up in
// the role table and verifies the password. On success it persists a new
// session and returns it with a signed token.
func (s *Service) Authenticate(creds Credentials) (*models.Session, string, error) {
	if verr := validateCredentials(creds); verr != nil {
		return nil, "", verr
	}

	name, hash, err := s.lookupPrincipal(creds)
	if err != nil {
		return nil, "", err
	}
	if hash == "" {
		return nil, "", &AuthError{Reasons: []string{"No user found"}}
	}

	// bcrypt's comparison is constant time.
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		return nil, "", &AuthError{Reasons: []string{"Invalid password"}}
	}

	return s.establishSession(creds.Role, name, creds.Email)
}

// Signup creates the principal and, like the original flow, immediately
// establishes a session for it. Duplicate emails surface as the store's
// uniqueness violation, reported generically.
func (s *Service) Signup(req SignupRequest) (*models.Session, string, error) {
	verr := &ValidationError{}
	if req.Name == "" {
		verr.Reasons = append(verr.Reasons, "Name is required")
	}
	verr.Reasons = append(verr.Reasons, validateCommon(req.Role, req.Email, req.Password, req.RollNo)...)
	if len(verr.Reasons) > 0 {
		return nil, "", verr
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	switch req.Role {
	case models.RoleStudent:
		err = s.Storage.CreateStudent(&models.Student{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			RollNo:       req.RollNo,
		})
	case models.RoleTeacher:
		err = s.Storage.CreateTeacher(&models.Teacher{
			Name:          req.Name,
			Email:         req.Email,
			PasswordHash:  hash,
			Designation:   req.Designation,
			ContactNumber: req.ContactNumber,
		})
	case models.RoleAdmin:
		err = s.Storage.CreateAdmin(&models.Admin{
			Name:           req.Name,
			Email:          req.Email,
			PasswordHash:   hash,
			ContactNumber:  req.ContactNumber,
			DepartmentName: req.DepartmentName,
		})
	}
	if err != nil {
		return nil, "", err
	}

	return s.establishSession(req.Role, req.Name, req.Email)
}

// Logout revokes the session unconditionally.
func (s *Service) Logout(sessionID string) error {
	return s.Storage.DeleteSession(sessionID)
}

func (s *Service) establishSession(role, name, email string) (*models.Session, string, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		Role:      role,
		Name:      name,
		Email:     email,
		ExpiresAt: time.Now().Add(config.SessionTTL),
	}
	if err := s.Storage.SaveSession(session, config.SessionTTL); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (s *Service) lookupPrincipal(creds Credentials) (name, hash string, err error) {
	switch creds.Role {
	case models.RoleStudent:
		student, err := s.Storage.FindStudent(creds.Email, creds.RollNo)
		if err != nil || student == nil {
			return "", "", err
		}
		return student.Name, student.PasswordHash, nil
	case models.RoleTeacher:
		teacher, err := s.Storage.FindTeacherByEmail(creds.Email)
		if err != nil || teacher == nil {
			return "", "", err
		}
		return teacher.Name, teacher.PasswordHash, nil
	case models.RoleAdmin:
		admin, err := s.Storage.FindAdminByEmail(creds.Email)
		if err != nil || admin == nil {
			return "", "", err
		}
		return admin.Name, admin.PasswordHash, nil
	}
	return "", "", nil
}

// issueToken signs a JWT whose sid claim points at the Redis session
// record, so logout takes effect immediately regardless of token expiry.
func (s *Service) issueToken(session *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":  session.ID,
		"role": session.Role,
		"exp":  session.ExpiresAt.Unix(),
		"iss":  s.Issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ParseToken validates the signature and returns the session id claim.
func (s *Service) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("token missing session id")
	}
	return sid, nil
}

// LandingPath maps a role to its home page route.
func LandingPath(role string) string {
	switch role {
	case models.RoleStudent:
		return "/student/home"
	case models.RoleTeacher:
		return "/teacher/home"
	case models.RoleAdmin:
		return "/admin/home"
	}
	return "/login"
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validateCredentials(creds Credentials) *ValidationError {
	reasons := validateCommon(creds.Role, creds.Email, creds.Password, creds.RollNo)
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

func validateCommon(role, email, password, rollNo string) []string {
	var reasons []string
	if _, err := mail.ParseAddress(email); err != nil {
		reasons = append(reasons, "Invalid email format")
	}
	if len(password) < config.MinPasswordLength {
		reasons = append(reasons, "Password must be at least 8 characters long")
	}
	if role == models.RoleStudent && len(rollNo) != config.RollNoLength {
		reasons = append(reasons, "Roll number must be exactly 10 characters")
	}
	if role != models.RoleStudent && role != models.RoleTeacher && role != models.RoleAdmin {
		reasons = append(reasons, "Unknown user type")
	}
	return reasons
}
