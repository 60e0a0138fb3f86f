package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileCredentials persists credentials as one JSON object on disk. Writes go
// to a temporary file that is renamed over the original, so a crash never
// leaves a half-written file behind.
type FileCredentials struct {
	path string
	mu   sync.Mutex
}

func NewFileCredentials(path string) (*FileCredentials, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("credentials file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credentials dir: %w", err)
	}

	return &FileCredentials{path: path}, nil
}

func (r *FileCredentials) Path() string {
	return r.path
}

func (r *FileCredentials) Get(keys ...string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readLocked()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := all[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (r *FileCredentials) Put(values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readLocked()
	if err != nil {
		// A corrupt file is replaced rather than blocking a fresh login.
		all = map[string]string{}
	}
	for key, v := range values {
		all[key] = v
	}
	return r.writeLocked(all)
}

func (r *FileCredentials) Delete(keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.readLocked()
	if err != nil {
		all = map[string]string{}
	}

	changed := false
	for _, key := range keys {
		if _, ok := all[key]; ok {
			delete(all, key)
			changed = true
		}
	}
	if !changed && err == nil {
		return nil
	}
	if len(all) == 0 {
		if rmErr := os.Remove(r.path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("remove credentials file: %w", rmErr)
		}
		return nil
	}
	return r.writeLocked(all)
}

func (r *FileCredentials) readLocked() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode credentials file: %w", err)
	}
	return values, nil
}

func (r *FileCredentials) writeLocked(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp credentials file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp credentials file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}
	return nil
}
