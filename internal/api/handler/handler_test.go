package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"helpdesk/backend/internal/api/handler"
	"helpdesk/backend/internal/api/middleware"
	"helpdesk/backend/internal/auth"
	"helpdesk/backend/internal/complaint"
	"helpdesk/backend/internal/models"
	"helpdesk/backend/internal/storage/storagetest"
	"helpdesk/backend/internal/uploads"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// fakeMonitor satisfies detector.Monitor without spawning anything.
type fakeMonitor struct {
	alive   bool
	started bool
	logs    string
}

func (f *fakeMonitor) Start() error  { f.started = true; f.alive = true; return nil }
func (f *fakeMonitor) IsAlive() bool { return f.alive }
func (f *fakeMonitor) Logs() string  { return f.logs }

type fixture struct {
	router    *gin.Engine
	store     *storagetest.MockStorage
	monitor   *fakeMonitor
	uploadDir string
}

// newFixture wires the full middleware chain and routes the way cmd/main
// does, against mocked storage.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := new(storagetest.MockStorage)
	authSvc := auth.NewService(store, []byte(testSecret), "helpdesk-test")
	complaintSvc := complaint.NewService(store, nil)
	uploadDir := t.TempDir()
	uploadStore, err := uploads.NewDiskStore(uploadDir)
	require.NoError(t, err)
	monitor := &fakeMonitor{logs: "no activity\n"}

	h := handler.NewHandler(authSvc, complaintSvc, store, uploadStore, monitor)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.POST("/signup", h.Signup)

	authed := api.Group("")
	authed.Use(middleware.Auth(authSvc, store))
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)
	authed.GET("/teachers", h.ListTeachers)

	student := authed.Group("")
	student.Use(middleware.RoleOnly(models.RoleStudent))
	student.POST("/complaints", h.SubmitComplaint)
	student.POST("/complaints/resend", h.ResendComplaint)
	student.GET("/student/complaints", h.StudentComplaints)

	teacher := authed.Group("")
	teacher.Use(middleware.RoleOnly(models.RoleTeacher))
	teacher.GET("/complaints/:id/transition", h.TransitionComplaint)
	teacher.GET("/teacher/complaints", h.TeacherComplaints)

	admin := authed.Group("/admin")
	admin.Use(middleware.RoleOnly(models.RoleAdmin))
	admin.GET("/complaints", h.AdminComplaints)
	admin.POST("/detector/start", h.DetectorStart)
	admin.GET("/detector/status", h.DetectorStatus)
	admin.GET("/detector/logs", h.DetectorLogs)

	return &fixture{router: r, store: store, monitor: monitor, uploadDir: uploadDir}
}

// storedProofCount counts the files currently sitting in the upload dir.
func (f *fixture) storedProofCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.uploadDir)
	require.NoError(t, err)
	return len(entries)
}

// login installs a live session in the mock store and returns a bearer
// token for it.
func (f *fixture) login(t *testing.T, role, name, email string) string {
	t.Helper()

	session := &models.Session{
		ID:        "sid-" + role + "-" + name,
		Role:      role,
		Name:      name,
		Email:     email,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.store.On("GetSession", session.ID).Return(session, nil)

	claims := jwt.MapClaims{
		"sid":  session.ID,
		"role": role,
		"exp":  session.ExpiresAt.Unix(),
		"iss":  "helpdesk-test",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)

	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	f.store.On("FindStudent", "a@x.com", "ST12345678").Return(&models.Student{
		Name: "Asha", Email: "a@x.com", PasswordHash: hash, RollNo: "ST12345678",
	}, nil)
	f.store.On("SaveSession", mock.AnythingOfType("*models.Session"), mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", jsonBody(t, gin.H{
		"user_type": "student",
		"email":     "a@x.com",
		"password":  "hunter2hunter2",
		"roll_no":   "ST12345678",
	}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/student/home", resp["redirect"])
	assert.Equal(t, "Asha", resp["name"])
	assert.NotEmpty(t, resp["token"])

	// The session token also rides a cookie.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
}

func TestLogin_ValidationErrorList(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", jsonBody(t, gin.H{
		"user_type": "student",
		"email":     "nope",
		"password":  "short77",
		"roll_no":   "123",
	}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "Invalid email format")
	assert.Contains(t, resp.Errors, "Password must be at least 8 characters long")
	assert.Contains(t, resp.Errors, "Roll number must be exactly 10 characters")
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	hash, err := auth.HashPassword("the-real-password")
	require.NoError(t, err)
	f.store.On("FindTeacherByEmail", "rao@campus.edu").Return(&models.Teacher{
		Name: "Dr. Rao", Email: "rao@campus.edu", PasswordHash: hash,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", jsonBody(t, gin.H{
		"user_type": "teacher",
		"email":     "rao@campus.edu",
		"password":  "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid password")
}

func TestProtectedEndpointWithoutToken(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/teacher/complaints", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGate_StudentCannotTransition(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/7/transition?action=accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.store.AssertNotCalled(t, "GetComplaintByID", mock.Anything)
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")
	f.store.On("DeleteSession", "sid-student-Asha").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	f.store.AssertCalled(t, "DeleteSession", "sid-student-Asha")
}

// TestSubmitComplaint_Scenario walks the filing flow end to end: a
// logged-in student submits the multipart form with one proof file, a
// Pending row is created, and both the teacher and the student listings
// surface it.
func TestSubmitComplaint_Scenario(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	f.store.On("FindTeacherByName", "Dr. Rao").Return(&models.Teacher{ID: 4, Name: "Dr. Rao"}, nil)

	var saved *models.Complaint
	f.store.On("SaveComplaint", mock.AnythingOfType("*models.Complaint")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.Complaint)
			saved.ID = 7
		}).
		Return(nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("teacher", "Dr. Rao"))
	require.NoError(t, mw.WriteField("complaint", "the wifi is broken"))
	fw, err := mw.CreateFormFile("proof", "speedtest.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)

	require.NotNil(t, saved)
	assert.Equal(t, models.StatusPending, saved.Status)
	assert.Equal(t, "a@x.com", saved.StudentEmail, "student identity comes from the session, not the form")
	require.Len(t, saved.ProofFiles, 1)
	assert.Contains(t, saved.ProofFiles[0], "speedtest.png")

	// Teacher view.
	teacherToken := f.login(t, models.RoleTeacher, "Dr. Rao", "rao@campus.edu")
	f.store.On("ListComplaintsForTeacher", "Dr. Rao", false).Return([]models.Complaint{*saved}, nil)

	req = httptest.NewRequest(http.MethodGet, "/api/teacher/complaints?view=all", nil)
	req.Header.Set("Authorization", "Bearer "+teacherToken)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "the wifi is broken")
	assert.Contains(t, w.Body.String(), `"pending_count":1`)

	// Student view.
	f.store.On("ListComplaintsForStudent", "a@x.com").Return([]models.Complaint{*saved}, nil)
	req = httptest.NewRequest(http.MethodGet, "/api/student/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "the wifi is broken")
}

// TestSubmitComplaint_TooShortStoresNoFiles rejects a two-word
// submission carrying a proof file and verifies nothing was written to
// the upload dir: a rejected submission must not leave files no
// complaint row references.
func TestSubmitComplaint_TooShortStoresNoFiles(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("teacher", "Dr. Rao"))
	require.NoError(t, mw.WriteField("complaint", "wifi broken"))
	fw, err := mw.CreateFormFile("proof", "evidence.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	f.store.AssertNotCalled(t, "SaveComplaint", mock.Anything)
	assert.Equal(t, 0, f.storedProofCount(t), "rejected submission must not leave stored proofs behind")
}

// TestSubmitComplaint_UnknownTeacherStoresNoFiles covers the other
// validation rejection with a proof attached.
func TestSubmitComplaint_UnknownTeacherStoresNoFiles(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	f.store.On("FindTeacherByName", "Prof. Nobody").Return(nil, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("teacher", "Prof. Nobody"))
	require.NoError(t, mw.WriteField("complaint", "the wifi is broken"))
	fw, err := mw.CreateFormFile("proof", "evidence.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	f.store.AssertNotCalled(t, "SaveComplaint", mock.Anything)
	assert.Equal(t, 0, f.storedProofCount(t))
}

// TestSubmitComplaint_InsertFailureCleansUpProofs makes the row insert
// fail after the proofs were written and verifies the handler removes
// them again.
func TestSubmitComplaint_InsertFailureCleansUpProofs(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	f.store.On("FindTeacherByName", "Dr. Rao").Return(&models.Teacher{ID: 4, Name: "Dr. Rao"}, nil)
	f.store.On("SaveComplaint", mock.AnythingOfType("*models.Complaint")).
		Return(errors.New("insert failed"))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("teacher", "Dr. Rao"))
	require.NoError(t, mw.WriteField("complaint", "the wifi is broken"))
	fw, err := mw.CreateFormFile("proof", "evidence.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/complaints", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Equal(t, 0, f.storedProofCount(t), "failed insert must not leave stored proofs behind")
}

func TestTransition_AcceptThenRejectRefused(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleTeacher, "Dr. Rao", "rao@campus.edu")

	f.store.On("FindTeacherByEmail", "rao@campus.edu").Return(&models.Teacher{ID: 4, Name: "Dr. Rao"}, nil)
	pending := &models.Complaint{ID: 7, TeacherID: 4, TeacherName: "Dr. Rao", Status: models.StatusPending}
	f.store.On("GetComplaintByID", uint(7)).Return(pending, nil).Once()
	f.store.On("UpdateComplaintStatus", uint(7), models.StatusAccepted).Return(nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/7/transition?action=accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Complaint status updated to Accepted.", w.Body.String())

	// Second attempt sees the resolved row and must not overwrite it.
	accepted := &models.Complaint{ID: 7, TeacherID: 4, TeacherName: "Dr. Rao", Status: models.StatusAccepted}
	f.store.On("GetComplaintByID", uint(7)).Return(accepted, nil).Once()

	req = httptest.NewRequest(http.MethodGet, "/api/complaints/7/transition?action=reject", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = f.do(req)

	assert.Equal(t, http.StatusConflict, w.Code)
	f.store.AssertNumberOfCalls(t, "UpdateComplaintStatus", 1)
}

func TestTransition_OtherTeacherForbidden(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleTeacher, "Dr. Iyer", "iyer@campus.edu")

	f.store.On("FindTeacherByEmail", "iyer@campus.edu").Return(&models.Teacher{ID: 9, Name: "Dr. Iyer"}, nil)
	f.store.On("GetComplaintByID", uint(7)).Return(&models.Complaint{
		ID: 7, TeacherID: 4, TeacherName: "Dr. Rao", Status: models.StatusPending,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/7/transition?action=accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.store.AssertNotCalled(t, "UpdateComplaintStatus", mock.Anything, mock.Anything)
}

func TestTransition_InvalidAction(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleTeacher, "Dr. Rao", "rao@campus.edu")

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/7/transition?action=escalate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid action.", w.Body.String())
}

func TestResendComplaint(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	f.store.On("FindTeacherByName", "Dr. Rao").Return(&models.Teacher{ID: 4, Name: "Dr. Rao"}, nil)

	var saved *models.Complaint
	f.store.On("SaveComplaint", mock.AnythingOfType("*models.Complaint")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.Complaint)
			saved.ID = 13
		}).
		Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/complaints/resend", jsonBody(t, gin.H{
		"teacher_name": "Dr. Rao",
		"complaint":    "the wifi is broken",
		"proof_files":  []string{"uploads/1_speedtest.png"},
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Complaint resent successfully!")
	require.NotNil(t, saved)
	assert.Equal(t, models.StatusPending, saved.Status)
	assert.Equal(t, []string{"uploads/1_speedtest.png"}, []string(saved.ProofFiles))
}

func TestAdminComplaintsAndDetector(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleAdmin, "Root", "root@campus.edu")

	f.store.On("ListAllComplaints").Return([]models.Complaint{
		{ID: 2, TeacherName: "Dr. Rao", Status: models.StatusPending},
		{ID: 1, TeacherName: "Dr. Iyer", Status: models.StatusAccepted},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. Iyer")

	req = httptest.NewRequest(http.MethodGet, "/api/admin/detector/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"running":false`)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/detector/start", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.monitor.started)
	assert.Contains(t, w.Body.String(), `"running":true`)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/detector/logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = f.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no activity\n", w.Body.String())
}

func TestListTeachers(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, models.RoleStudent, "Asha", "a@x.com")

	f.store.On("ListTeacherNames").Return([]string{"Dr. Iyer", "Dr. Rao"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/teachers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. Rao")
}
