package session

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/process"
	"github.com/spf13/afero"

	"github.com/scanner-research/scanner-gke/internal/log"
)

// Store persists the forward pid of the current session.
type Store interface {
	// Load returns the recorded pid. ok is false when nothing usable is recorded.
	Load() (pid int, ok bool, err error)

	// Save records pid, replacing any previous entry atomically.
	Save(pid int) error

	// IsAlive reports whether pid refers to a running process.
	IsAlive(pid int) bool

	// Clear removes the entry if it still records pid.
	Clear(pid int) error
}

// FileStore is a Store backed by a lock file holding the pid as decimal text.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a FileStore for the lock file at path.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the lock file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store. Unreadable content is treated like a stale entry.
func (s *FileStore) Load() (int, bool, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("unable to read lock file %s: %w", s.path, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		log.Warnf("ignoring invalid lock file %s: %q", s.path, string(data))
		return 0, false, nil
	}
	return pid, true, nil
}

// Save implements Store.
func (s *FileStore) Save(pid int) error {
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return fmt.Errorf("unable to write lock file %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("unable to write lock file %s: %w", s.path, err)
	}
	return nil
}

// IsAlive implements Store.
func (s *FileStore) IsAlive(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		log.Debugf("unable to check pid %d: %v", pid, err)
		return false
	}
	return exists
}

// Clear implements Store.
func (s *FileStore) Clear(pid int) error {
	current, ok, err := s.Load()
	if err != nil {
		return err
	}
	if !ok || current != pid {
		return nil
	}
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to delete lock file %s: %w", s.path, err)
	}
	return nil
}
