package repository

import "sync"

// MemoryCredentials keeps credentials for the lifetime of the process only.
type MemoryCredentials struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{values: map[string]string{}}
}

func (r *MemoryCredentials) Get(keys ...string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := r.values[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (r *MemoryCredentials) Put(values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, v := range values {
		r.values[key] = v
	}
	return nil
}

func (r *MemoryCredentials) Delete(keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		delete(r.values, key)
	}
	return nil
}
