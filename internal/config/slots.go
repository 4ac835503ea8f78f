package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Slots is the durable key/value storage behind the Store. A missing slot
// reads as (zero, false).
type Slots interface {
	ReadInt(key Key) (int64, bool)
	ReadBool(key Key) (bool, bool)
	WriteInt(key Key, v int64) error
	WriteBool(key Key, v bool) error
}

type slotFile struct {
	Ints  map[string]int64 `yaml:"ints,omitempty"`
	Bools map[string]bool  `yaml:"bools,omitempty"`
}

// FileSlots persists slots in a small YAML file. Every write rewrites the
// file through a temp file and rename so a crash never leaves it torn.
type FileSlots struct {
	mu   sync.Mutex
	path string
	data slotFile
}

// OpenFileSlots loads path if it exists; a missing file is a first run.
func OpenFileSlots(path string) (*FileSlots, error) {
	f := &FileSlots{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &f.data); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f, nil
}

func (f *FileSlots) ReadInt(key Key) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data.Ints[key.String()]
	return v, ok
}

func (f *FileSlots) ReadBool(key Key) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data.Bools[key.String()]
	return v, ok
}

func (f *FileSlots) WriteInt(key Key, v int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data.Ints == nil {
		f.data.Ints = map[string]int64{}
	}
	f.data.Ints[key.String()] = v
	return f.flush()
}

func (f *FileSlots) WriteBool(key Key, v bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data.Bools == nil {
		f.data.Bools = map[string]bool{}
	}
	f.data.Bools[key.String()] = v
	return f.flush()
}

func (f *FileSlots) flush() error {
	b, err := yaml.Marshal(&f.data)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: mkdir %s: %w", dir, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("config: rename %s: %w", tmp, err)
	}
	return nil
}

// MemSlots keeps slots in memory. Err, when set, is returned by every write.
type MemSlots struct {
	Ints  map[Key]int64
	Bools map[Key]bool
	Err   error
}

func NewMemSlots() *MemSlots {
	return &MemSlots{Ints: map[Key]int64{}, Bools: map[Key]bool{}}
}

func (m *MemSlots) ReadInt(key Key) (int64, bool) { v, ok := m.Ints[key]; return v, ok }

func (m *MemSlots) ReadBool(key Key) (bool, bool) { v, ok := m.Bools[key]; return v, ok }

func (m *MemSlots) WriteInt(key Key, v int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.Ints[key] = v
	return nil
}

func (m *MemSlots) WriteBool(key Key, v bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.Bools[key] = v
	return nil
}
