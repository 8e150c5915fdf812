// Package users keeps the staff accounts of the admin tool in a small JSON
// file mapping username to password hash.
package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// AdminUsername is the built-in account. It always exists, cannot be
// deleted and its password cannot be changed from the tool.
const AdminUsername = "admin"

// Audit actions written for each successful mutation.
const (
	ActionAdd            = "user added"
	ActionDelete         = "user deleted"
	ActionChangePassword = "password changed"
)

var (
	ErrInvalidInput  = errors.New("users: invalid input")
	ErrAlreadyExists = errors.New("users: user already exists")
	ErrForbidden     = errors.New("users: the admin account cannot be modified")
	ErrNotFound      = errors.New("users: user not found")
)

// Auditor records user-management actions.
type Auditor interface {
	Log(action, username string)
}

// Store is the JSON-file user store. Writes within one process are
// serialized; concurrent writers in other processes are last-writer-wins.
type Store struct {
	mu    sync.Mutex
	path  string
	cost  int
	audit Auditor
}

// Option configures a Store.
type Option func(*Store)

// WithCost sets the bcrypt cost used for new hashes.
func WithCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// Open returns the store at path. If the file does not exist it is created
// with a single admin account using adminPassword.
func Open(path, adminPassword string, audit Auditor, opts ...Option) (*Store, error) {
	s := &Store{path: path, cost: DefaultCost, audit: audit}
	for _, o := range opts {
		o(s)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		hash, err := hashPassword(adminPassword, s.cost)
		if err != nil {
			return nil, err
		}
		if err := s.save(map[string]string{AdminUsername: hash}); err != nil {
			return nil, fmt.Errorf("users: seed %s: %w", path, err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// Verify reports whether password matches the stored hash for username.
func (s *Store) Verify(username, password string) bool {
	s.mu.Lock()
	m, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return false
	}
	hash, ok := m[username]
	if !ok {
		return false
	}
	return checkPassword(hash, password)
}

// List returns all usernames in sorted order.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Add creates a new account.
func (s *Store) Add(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	return s.mutate(ActionAdd, username, func(m map[string]string) error {
		if _, ok := m[username]; ok {
			return ErrAlreadyExists
		}
		hash, err := hashPassword(password, s.cost)
		if err != nil {
			return err
		}
		m[username] = hash
		return nil
	})
}

// Delete removes an account.
func (s *Store) Delete(username string) error {
	if username == AdminUsername {
		return ErrForbidden
	}
	return s.mutate(ActionDelete, username, func(m map[string]string) error {
		if _, ok := m[username]; !ok {
			return ErrNotFound
		}
		delete(m, username)
		return nil
	})
}

// ChangePassword replaces the password of an existing account.
func (s *Store) ChangePassword(username, password string) error {
	if username == AdminUsername {
		return ErrForbidden
	}
	if password == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}
	return s.mutate(ActionChangePassword, username, func(m map[string]string) error {
		if _, ok := m[username]; !ok {
			return ErrNotFound
		}
		hash, err := hashPassword(password, s.cost)
		if err != nil {
			return err
		}
		m[username] = hash
		return nil
	})
}

func (s *Store) mutate(action, username string, fn func(map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	if err := s.save(m); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Log(action, username)
	}
	return nil
}

func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("users: read %s: %w", s.path, err)
	}
	m := make(map[string]string)
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("users: parse %s: %w", s.path, err)
	}
	return m, nil
}

// save writes through a temp file so a crash never leaves a truncated store.
func (s *Store) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
