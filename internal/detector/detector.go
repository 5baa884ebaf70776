// Package detector supervises the external video-analysis service the
// admin dashboard can launch and observe. It is deliberately thin: probe
// a port, spawn a command, read a log file.
package detector

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"
)

// NoLogsSentinel is returned by Logs when the service has never written
// its log file.
const NoLogsSentinel = "Log file not found."

// Monitor is the capability the admin flow is handed. Nothing outside
// this package depends on how the service is actually run.
type Monitor interface {
	Start() error
	IsAlive() bool
	Logs() string
}

// ProcessMonitor runs the detector as a child process listening on a
// local port, with stdout and stderr redirected to a log file.
type ProcessMonitor struct {
	Port    int
	Command string
	LogFile string
	Timeout time.Duration
}

func NewProcessMonitor(port int, command, logFile string, timeout time.Duration) *ProcessMonitor {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProcessMonitor{Port: port, Command: command, LogFile: logFile, Timeout: timeout}
}

// IsAlive probes the detector's port. The timeout is bounded so a hung
// probe cannot stall the admin page.
func (m *ProcessMonitor) IsAlive() bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", m.Port), m.Timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Start spawns the configured command if the port probe fails. There is
// no retry or backoff, and no verification beyond the spawn itself; the
// next IsAlive call is the health check.
func (m *ProcessMonitor) Start() error {
	if m.IsAlive() {
		return nil
	}

	parts := strings.Fields(m.Command)
	if len(parts) == 0 {
		return fmt.Errorf("detector command not configured")
	}

	logFile, err := os.OpenFile(m.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		log.Printf("ERROR: Failed to start detector: %v", err)
		return err
	}
	log.Printf("INFO: Detector started (pid %d)", cmd.Process.Pid)

	// Reap the child when it exits so it never lingers as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("ERROR: Detector exited: %v", err)
		}
	}()
	return nil
}

// Logs returns whatever the detector has written so far.
func (m *ProcessMonitor) Logs() string {
	data, err := os.ReadFile(m.LogFile)
	if err != nil {
		return NoLogsSentinel
	}
	return string(data)
}
