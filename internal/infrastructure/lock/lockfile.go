// Package lock implements the single-instance guard. The rest of the system
// only sees it as "the process is authorized to run".
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/pkg/filesystem"
	"github.com/doeshing/cmdgate/internal/ports"
)

// FileLock serializes agent instances through a JSON lock file. A lock left
// behind by a dead process is treated as stale and reclaimed.
type FileLock struct {
	path       string
	instanceID string
	logger     ports.Logger
}

// NewFileLock resolves the lock path (explicit setting, then the
// CMDGATE_LOCK_FILE env var, then the user cache dir) and assigns this
// process a fresh instance id.
func NewFileLock(path string, log ports.Logger) *FileLock {
	return &FileLock{
		path:       resolvePath(path),
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Acquire claims the lock. A live owner is an error; a stale lock is removed
// first. Creation uses O_EXCL so two concurrent starters cannot both win.
func (l *FileLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	if data, err := os.ReadFile(l.path); err == nil {
		var info domain.LockInfo
		if json.Unmarshal(data, &info) == nil && processAlive(info.PID) {
			return fmt.Errorf("another instance is already running (pid %d)", info.PID)
		}
		if l.logger != nil {
			l.logger.Warn("removing stale lock file", map[string]interface{}{"path": l.path})
		}
		_ = os.Remove(l.path)
	}

	data, err := json.Marshal(domain.LockInfo{
		PID:        os.Getpid(),
		InstanceID: l.instanceID,
		Timestamp:  time.Now(),
	})
	if err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("lock file already exists, another instance may be starting: %s", l.path)
		}
		return err
	}
	defer file.Close()
	_, err = file.Write(data)
	return err
}

// Release removes the lock file, but only when this instance owns it.
func (l *FileLock) Release() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var info domain.LockInfo
	if err := json.Unmarshal(data, &info); err == nil && info.InstanceID != l.instanceID {
		return nil
	}
	return os.Remove(l.path)
}

// Path returns the resolved lock file location.
func (l *FileLock) Path() string {
	return l.path
}

func resolvePath(path string) string {
	if path != "" {
		return filesystem.ExpandPath(path)
	}
	if fromEnv := os.Getenv("CMDGATE_LOCK_FILE"); fromEnv != "" {
		return filesystem.ExpandPath(fromEnv)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "cmdgate", "cmdgate.lock")
}

// processAlive probes pid with signal 0. EPERM still means the process
// exists, just under another user.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

var _ ports.ProcessLock = (*FileLock)(nil)
