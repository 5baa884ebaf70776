package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"helpdesk/backend/internal/api/handler"
	"helpdesk/backend/internal/api/middleware"
	"helpdesk/backend/internal/auth"
	"helpdesk/backend/internal/complaint"
	"helpdesk/backend/internal/config"
	"helpdesk/backend/internal/detector"
	"helpdesk/backend/internal/models"
	"helpdesk/backend/internal/notify"
	"helpdesk/backend/internal/storage"
	"helpdesk/backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Student{},
		&models.Teacher{},
		&models.Admin{},
		&models.Complaint{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Helpdesk Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("ERROR: Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	authSvc := auth.NewService(s, []byte(cfg.JWTSecret), cfg.JWTIssuer)
	complaintSvc := complaint.NewService(s, notifier)

	uploadStore, err := uploads.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	monitor := detector.NewProcessMonitor(cfg.DetectorPort, cfg.DetectorCommand, cfg.DetectorLogFile, cfg.DetectorTimeout)

	r := gin.Default()
	h := handler.NewHandler(authSvc, complaintSvc, s, uploadStore, monitor)

	// Stored proofs are linked to directly from the complaint listings.
	r.Static("/"+cfg.UploadDir, "./"+cfg.UploadDir)

	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.POST("/signup", h.Signup)

	authed := api.Group("")
	authed.Use(middleware.Auth(authSvc, s))
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
	admin.GET("/detector/logs/ws", h.DetectorLogStream)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
