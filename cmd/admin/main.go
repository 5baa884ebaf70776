package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"helpdesk/backend/internal/auth"
	"helpdesk/backend/internal/models"
	"helpdesk/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Operator CLI over the same storage layer the server uses. The resolve
// command writes the status directly, bypassing the ownership check, so
// an operator can clear a complaint whose teacher account is gone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		dsn = "host=localhost user=user password=password dbname=helpdeskdb port=5432 sslmode=disable"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) != 7 {
			fmt.Println("Usage: admin create-admin <name> <email> <password> <contact> <department>")
			os.Exit(1)
		}
		if err := createAdmin(storageSvc, os.Args[2], os.Args[3], os.Args[4], os.Args[5], os.Args[6]); err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Admin %s created.\n", os.Args[3])
	case "list-complaints":
		complaints, err := storageSvc.ListAllComplaints()
		if err != nil {
			log.Fatalf("Error listing complaints: %v", err)
		}
		for _, c := range complaints {
			fmt.Printf("#%d\t%s\t%s -> %s\t%s\n", c.ID, c.Status, c.StudentEmail, c.TeacherName, c.Complaint)
		}
	case "resolve":
		if len(os.Args) < 4 || len(os.Args) > 5 {
			fmt.Println("Usage: admin resolve <complaint_id> <Accepted|Rejected> [--force]")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid complaint ID. Please provide an integer.")
			os.Exit(1)
		}
		force := len(os.Args) == 5 && os.Args[4] == "--force"
		if err := resolveComplaint(storageSvc, uint(id), os.Args[3], force); err != nil {
			log.Fatalf("Error resolving complaint: %v", err)
		}
		fmt.Printf("Complaint %d has been marked %s.\n", id, os.Args[3])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func createAdmin(s storage.Storage, name, email, password, contact, department string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.CreateAdmin(&models.Admin{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		ContactNumber:  contact,
		DepartmentName: department,
	})
}

func resolveComplaint(s storage.Storage, id uint, status string, force bool) error {
	if status != models.StatusAccepted && status != models.StatusRejected {
		return fmt.Errorf("status must be %s or %s", models.StatusAccepted, models.StatusRejected)
	}
	complaint, err := s.GetComplaintByID(id)
	if err != nil {
		return err
	}
	if complaint == nil {
		return fmt.Errorf("no complaint with id %d", id)
	}
	if complaint.Terminal() && !force {
		return fmt.Errorf("complaint %d is already %s; pass --force to overwrite", id, complaint.Status)
	}
	return s.UpdateComplaintStatus(id, status)
}
