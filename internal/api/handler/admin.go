package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DetectorStart launches the violence-detection service if its port is
// not answering yet.
func (h *Handler) DetectorStart(c *gin.Context) {
	if err := h.Detector.Start(); err != nil {
		log.Printf("ERROR: Detector start failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"running": false, "error": "could not start detector"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"running": h.Detector.IsAlive()})
}

// DetectorStatus reports whether the detector's port answers.
func (h *Handler) DetectorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"running": h.Detector.IsAlive()})
}

// DetectorLogs returns the detector's log file contents, or the
// not-found sentinel when it has never run.
func (h *Handler) DetectorLogs(c *gin.Context) {
	c.String(http.StatusOK, h.Detector.Logs())
}
