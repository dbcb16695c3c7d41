package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned by Acquire when a live daemon owns the file
var ErrAlreadyRunning = errors.New("daemon already running")

// PIDFile keeps a single daemon per simulation database
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current pid. A stale or unreadable pid file is replaced.
func (p *PIDFile) Acquire() error {
	if pid, err := p.Read(); err == nil {
		if isProcessRunning(pid) && pid != os.Getpid() {
			return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, pid)
		}
		_ = os.Remove(p.path)
	} else if !errors.Is(err, os.ErrNotExist) {
		_ = os.Remove(p.path)
	}

	data := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read returns the pid stored in the file
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s: %w", p.path, err)
	}
	return pid, nil
}

// KillExisting sends SIGTERM to the recorded daemon and waits up to timeout for it to exit
func (p *PIDFile) KillExisting(timeout time.Duration) error {
	pid, err := p.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !isProcessRunning(pid) {
		return p.Release()
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal daemon %d: %w", pid, err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return p.Release()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon %d did not exit within %s", pid, timeout)
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes the pid with signal 0; EPERM still means alive
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
