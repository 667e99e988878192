package storage

import (
	"context"
	"errors"
	"sync"
)

// InMemoryAvatarStorage keeps objects in a map. It is intended for tests
// and local development without an object storage backend.
type InMemoryAvatarStorage struct {
	mu      sync.RWMutex
	objects map[string]storedObject
	baseURL string
}

type storedObject struct {
	data        []byte
	contentType string
}

// NewInMemoryAvatarStorage creates a new in-memory avatar storage
func NewInMemoryAvatarStorage() *InMemoryAvatarStorage {
	return &InMemoryAvatarStorage{
		objects: make(map[string]storedObject),
		baseURL: "https://storage.example.com",
	}
}

// Upload stores an object and returns its public URL
func (s *InMemoryAvatarStorage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = storedObject{data: copied, contentType: contentType}

	return s.baseURL + "/" + key, nil
}

// Delete removes an object
func (s *InMemoryAvatarStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists reports whether an object is stored under the given key
func (s *InMemoryAvatarStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Get returns a stored object's data and content type (test helper)
func (s *InMemoryAvatarStorage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}
