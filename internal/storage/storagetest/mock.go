// Package storagetest provides a testify mock of the storage.Storage
// interface shared by the service and handler tests.
package storagetest

import (
	"time"

	"helpdesk/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

// Principal operations

func (m *MockStorage) CreateStudent(student *models.Student) error {
	args := m.Called(student)
	return args.Error(0)
}

func (m *MockStorage) CreateTeacher(teacher *models.Teacher) error {
	args := m.Called(teacher)
	return args.Error(0)
}

func (m *MockStorage) CreateAdmin(admin *models.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockStorage) FindStudent(email, rollNo string) (*models.Student, error) {
	args := m.Called(email, rollNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStorage) FindStudentByEmail(email string) (*models.Student, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStorage) FindTeacherByEmail(email string) (*models.Teacher, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockStorage) FindTeacherByName(name string) (*models.Teacher, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockStorage) FindAdminByEmail(email string) (*models.Admin, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockStorage) ListTeacherNames() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Complaint operations

func (m *MockStorage) SaveComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) ListComplaintsForTeacher(teacherName string, pendingOnly bool) ([]models.Complaint, error) {
	args := m.Called(teacherName, pendingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsForStudent(studentEmail string) ([]models.Complaint, error) {
	args := m.Called(studentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListAllComplaints() ([]models.Complaint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

// Session operations

func (m *MockStorage) SaveSession(session *models.Session, ttl time.Duration) error {
	args := m.Called(session, ttl)
	return args.Error(0)
}

func (m *MockStorage) GetSession(id string) (*models.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockStorage) DeleteSession(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
