// Package settings holds the user-editable settings tree: compiled-in
// defaults merged under a YAML file that the web UI and the user can edit.
package settings

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	dirName  = "config"
	fileName = "settings.yaml"
)

// ErrEmptyPath is returned by Set when the key path is empty.
var ErrEmptyPath = errors.New("settings: empty key path")

// Store is a concurrency-safe settings tree backed by a YAML file.
type Store struct {
	mu     sync.RWMutex
	tree   *Tree
	path   string
	logger *log.Logger
}

// Open loads <baseDir>/config/settings.yaml, creating the directory and the
// file (with defaults) when they are missing. It fails only if the storage
// location cannot be created or written on first run.
func Open(baseDir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	dir := filepath.Join(baseDir, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir %s: %w", dir, err)
	}
	s := &Store{path: filepath.Join(dir, fileName), logger: logger}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.tree = Defaults()
		if err := s.save(); err != nil {
			return fmt.Errorf("initialise settings: %w", err)
		}
		s.logger.Printf("created %s with defaults", s.path)
		return nil
	case err != nil:
		s.logger.Printf("read %s: %v; using defaults", s.path, err)
		s.tree = Defaults()
		return nil
	}

	loaded := NewTree()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, loaded); err != nil {
			s.logger.Printf("parse %s: %v; using defaults", s.path, err)
			loaded = NewTree()
		}
	}
	s.tree = merge(loaded, Defaults())
	return nil
}

// Get returns the value at a dot-separated key path, or def when any
// segment is missing or resolves to a non-mapping.
func (s *Store) Get(path string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := lookup(s.tree, path)
	if !ok {
		return def
	}
	return cloneValue(v)
}

func lookup(t *Tree, path string) (any, bool) {
	var node any = t
	for _, key := range strings.Split(path, ".") {
		m, ok := node.(*Tree)
		if !ok {
			return nil, false
		}
		node, ok = m.Lookup(key)
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Set stores value at path, creating (or replacing non-mapping)
// intermediate levels. It does not persist; call Save.
func (s *Store) Set(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return set(s.tree, path, value)
}

func set(t *Tree, path string, value any) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	keys := strings.Split(path, ".")
	node := t
	for _, key := range keys[:len(keys)-1] {
		next, ok := node.vals[key].(*Tree)
		if !ok {
			next = NewTree()
			node.Put(key, next)
		}
		node = next
	}
	node.Put(keys[len(keys)-1], normalize(value))
	return nil
}

// Apply sets every dotted key in values and saves, holding the lock for the
// whole update. Keys are applied in sorted order.
func (s *Store) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if err := set(s.tree, k, values[k]); err != nil {
			return fmt.Errorf("set %q: %w", k, err)
		}
	}
	return s.save()
}

// Save overwrites the settings file with the full tree.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

func (s *Store) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(s.tree); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the whole tree.
func (s *Store) Snapshot() *Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Clone()
}

// String returns the value at path formatted as a string.
func (s *Store) String(path, def string) string {
	switch v := s.Get(path, nil).(type) {
	case nil:
		return def
	case string:
		return v
	case *Tree, []any:
		return def
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value at path as an int. Strings are parsed, floats are
// truncated; anything else yields def.
func (s *Store) Int(path string, def int) int {
	switch v := s.Get(path, nil).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(f)
		}
	}
	return def
}

// Float returns the value at path as a float64.
func (s *Store) Float(path string, def float64) float64 {
	switch v := s.Get(path, nil).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Strings returns the value at path as a list of strings. A plain string is
// split on commas, which is what the settings form submits.
func (s *Store) Strings(path string, def []string) []string {
	switch v := s.Get(path, nil).(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str := strings.TrimSpace(fmt.Sprint(item)); str != "" {
				out = append(out, str)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return def
}

// Tree returns the mapping at path, or nil.
func (s *Store) Tree(path string) *Tree {
	t, _ := s.Get(path, nil).(*Tree)
	return t
}
