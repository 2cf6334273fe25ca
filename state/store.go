package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoTarget is returned when no deployment target has been provisioned
// yet, or when the persisted record is unusable.
var ErrNoTarget = errors.New("no deployment target provisioned")

// Target is the persisted identity of the provisioned instance. It only
// says which host to talk to; phase completion is always read from the
// host itself.
type Target struct {
	ID            string
	PublicAddress string
}

// Store persists the deployment target record between runs.
type Store interface {
	Load() (Target, error)
	Save(Target) error
	Clear() error
}

// DefaultPath returns the conventional location of the target record.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".local", "state", "cockpit-deploy", "target"), nil
}

// FileStore keeps the target record in a plain text file, one field per
// line. The layout predates this tool and is kept for compatibility:
//
//	Target ID: i-0123456789abcdef0
//	Public Address: 198.51.100.7
//
// Unknown lines are ignored so the file can gain fields without breaking
// older builds.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (Target, error) {
	b, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Target{}, ErrNoTarget
	}
	if err != nil {
		return Target{}, fmt.Errorf("reading target record: %w", err)
	}

	var target Target
	for _, line := range strings.Split(string(b), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Target ID":
			target.ID = value
		case "Public Address":
			target.PublicAddress = value
		}
	}

	if target.ID == "" {
		return Target{}, fmt.Errorf("target record %s has no target id: %w", s.Path, ErrNoTarget)
	}

	return target, nil
}

func (s *FileStore) Save(target Target) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	content := fmt.Sprintf("Target ID: %s\nPublic Address: %s\n", target.ID, target.PublicAddress)

	return os.WriteFile(s.Path, []byte(content), 0644)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.Mutex
	target *Target
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() (Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return Target{}, ErrNoTarget
	}

	return *s.target, nil
}

func (s *MemStore) Save(target Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = &target

	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = nil

	return nil
}
