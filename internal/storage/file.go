package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// File persists values as a YAML mapping in a single file. Writes go to a
// temporary file that is renamed over the original.
type File struct {
	mu   sync.Mutex
	path string
}

type fileState struct {
	Values map[string]string `yaml:"values"`
}

// NewFile returns a store rooted at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return "", err
	}
	val, ok := state.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	state.Values[key] = value
	return f.save(state)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := state.Values[key]; !ok {
		return nil
	}
	delete(state.Values, key)
	return f.save(state)
}

// Ping verifies the state directory is usable.
func (f *File) Ping(context.Context) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("state dir %s: %w", dir, err)
	}
	return nil
}

func (f *File) load() (*fileState, error) {
	state := &fileState{Values: map[string]string{}}

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", f.path, err)
	}
	if state.Values == nil {
		state.Values = map[string]string{}
	}
	return state, nil
}

func (f *File) save(state *fileState) error {
	raw, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("chmod temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	return os.Rename(tmpName, f.path)
}
