package handler

import (
	"helpdesk/backend/internal/auth"
	"helpdesk/backend/internal/complaint"
	"helpdesk/backend/internal/detector"
	"helpdesk/backend/internal/storage"
	"helpdesk/backend/internal/uploads"
)

// Handler bundles the services the HTTP endpoints dispatch to.
type Handler struct {
	Auth       *auth.Service
	Complaints *complaint.Service
	Storage    storage.Storage
	Uploads    uploads.Store
	Detector   detector.Monitor
}

func NewHandler(authSvc *auth.Service, complaints *complaint.Service, store storage.Storage, up uploads.Store, mon detector.Monitor) *Handler {
	return &Handler{
		Auth:       authSvc,
		Complaints: complaints,
		Storage:    store,
		Uploads:    up,
		Detector:   mon,
	}
}
