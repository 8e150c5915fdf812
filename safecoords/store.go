// Package safecoords keeps the named teleport points staff can send players
// to. Values are free-form "vector3(x, y, z), heading" strings.
package safecoords

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

// Prefix every stored value must start with.
const Prefix = "vector3"

var (
	ErrInvalidInput  = errors.New("safecoords: invalid input")
	ErrInvalidFormat = errors.New("safecoords: value must start with " + Prefix)
	ErrNotFound      = errors.New("safecoords: coordinate not found")
)

// Entry is one named coordinate.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Store is a JSON file mapping name to coordinate string.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open returns the store at path, creating an empty file if needed.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.save(map[string]string{}); err != nil {
			return nil, fmt.Errorf("safecoords: create %s: %w", path, err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns every entry sorted by name.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(m))
	for name, value := range m {
		out = append(out, Entry{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := m[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Add stores value under name, replacing any previous value. Only the
// vector3 prefix is checked; the numbers themselves are not validated.
func (s *Store) Add(name, value string) error {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !strings.HasPrefix(value, Prefix) {
		return ErrInvalidFormat
	}
	return s.mutate(func(m map[string]string) error {
		m[name] = value
		return nil
	})
}

// Update replaces the value of an existing entry.
func (s *Store) Update(name, value string) error {
	value = strings.TrimSpace(value)
	return s.mutate(func(m map[string]string) error {
		if _, ok := m[name]; !ok {
			return ErrNotFound
		}
		m[name] = value
		return nil
	})
}

// Delete removes an entry.
func (s *Store) Delete(name string) error {
	return s.mutate(func(m map[string]string) error {
		if _, ok := m[name]; !ok {
			return ErrNotFound
		}
		delete(m, name)
		return nil
	})
}

func (s *Store) mutate(fn func(map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return s.save(m)
}

func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("safecoords: read %s: %w", s.path, err)
	}
	m := make(map[string]string)
	if len(strings.TrimSpace(string(b))) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("safecoords: parse %s: %w", s.path, err)
	}
	return m, nil
}

func (s *Store) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
