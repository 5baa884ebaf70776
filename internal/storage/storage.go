package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"helpdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Storage interface {
	CreateStudent(student *models.Student) error
	CreateTeacher(teacher *models.Teacher) error
	CreateAdmin(admin *models.Admin) error

	FindStudent(email, rollNo string) (*models.Student, error)
	FindStudentByEmail(email string) (*models.Student, error)
	FindTeacherByEmail(email string) (*models.Teacher, error)
	FindTeacherByName(name string) (*models.Teacher, error)
	FindAdminByEmail(email string) (*models.Admin, error)
	ListTeacherNames() ([]string, error)

	SaveComplaint(complaint *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	UpdateComplaintStatus(id uint, status string) error
	ListComplaintsForTeacher(teacherName string, pendingOnly bool) ([]models.Complaint, error)
	ListComplaintsForStudent(studentEmail string) ([]models.Complaint, error)
	ListAllComplaints() ([]models.Complaint, error)

	SaveSession(session *models.Session, ttl time.Duration) error
	GetSession(id string) (*models.Session, error)
	DeleteSession(id string) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) CreateStudent(student *models.Student) error {
	if err := s.DB.Create(student).Error; err != nil {
		log.Printf("ERROR: Failed to create student %s: %v", student.Email, err)
		return err
	}
	return nil
}

func (s *Service) CreateTeacher(teacher *models.Teacher) error {
	if err := s.DB.Create(teacher).Error; err != nil {
		log.Printf("ERROR: Failed to create teacher %s: %v", teacher.Email, err)
		return err
	}
	return nil
}

func (s *Service) CreateAdmin(admin *models.Admin) error {
	if err := s.DB.Create(admin).Error; err != nil {
		log.Printf("ERROR: Failed to create admin %s: %v", admin.Email, err)
		return err
	}
	return nil
}

// FindStudent looks a student up by email AND roll number, the pair the
// login form requires. Returns nil without error when no row matches.
func (s *Service) FindStudent(email, rollNo string) (*models.Student, error) {
	var student models.Student
	err := s.DB.Where("email = ? AND roll_no = ?", email, rollNo).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *Service) FindStudentByEmail(email string) (*models.Student, error) {
	var student models.Student
	err := s.DB.Where("email = ?", email).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *Service) FindTeacherByEmail(email string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.DB.Where("email = ?", email).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (s *Service) FindTeacherByName(name string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.DB.Where("name = ?", name).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (s *Service) FindAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.DB.Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// ListTeacherNames feeds the complaint form's teacher dropdown.
func (s *Service) ListTeacherNames() ([]string, error) {
	var names []string
	if err := s.DB.Model(&models.Teacher{}).
		Order("name asc").
		Pluck("name", &names).Error; err != nil {
		log.Printf("ERROR: Failed to list teacher names: %v", err)
		return nil, err
	}
	return names, nil
}

func (s *Service) SaveComplaint(complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}

	result := s.DB.Create(complaint)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save complaint against %s: %v", complaint.TeacherName, result.Error)
		return result.Error
	}
	return nil
}

func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *Service) UpdateComplaintStatus(id uint, status string) error {
	return s.DB.Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *Service) ListComplaintsForTeacher(teacherName string, pendingOnly bool) ([]models.Complaint, error) {
	var complaints []models.Complaint
	query := s.DB.Where("teacher_name = ?", teacherName)
	if pendingOnly {
		query = query.Where("status = ?", models.StatusPending)
	}
	if err := query.Order("created_at desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints for teacher %s: %v", teacherName, err)
		return nil, err
	}
	return complaints, nil
}

func (s *Service) ListComplaintsForStudent(studentEmail string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := s.DB.Where("student_email = ?", studentEmail).
		Order("created_at desc").
		Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints for student %s: %v", studentEmail, err)
		return nil, err
	}
	return complaints, nil
}

func (s *Service) ListAllComplaints() ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := s.DB.Order("created_at desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// SaveSession persists the session record in Redis under session:<id>.
// Redis TTL is the only expiry mechanism; nothing is written to Postgres.
func (s *Service) SaveSession(session *models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Redis.Set(s.Ctx, sessionKey(session.ID), payload, ttl).Err()
}

// GetSession returns nil without error when the session is unknown,
// expired, or revoked by logout.
func (s *Service) GetSession(id string) (*models.Session, error) {
	payload, err := s.Redis.Get(s.Ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Service) DeleteSession(id string) error {
	return s.Redis.Del(s.Ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return "session:" + id
}
