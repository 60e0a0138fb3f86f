// Package credential holds the client's persisted session: the access token,
// the refresh token and the serialized user profile.
package credential

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"crowdfund-client/internal/event"
	"crowdfund-client/internal/model"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserData     = "user_data"
)

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUserData}

// Backend is durable string key/value storage. Put must apply all values or
// none of them.
type Backend interface {
	Get(keys ...string) (map[string]string, error)
	Put(values map[string]string) error
	Delete(keys ...string) error
}

// Store is the single owner of the persisted session. Reads and writes are
// serialized so a reader never observes a half-written session.
type Store struct {
	mu       sync.RWMutex
	backend  Backend
	bus      event.Bus
	revision uint64
	now      func() time.Time
}

func NewStore(backend Backend, bus event.Bus) *Store {
	if bus == nil {
		bus = event.NewBus()
	}
	return &Store{backend: backend, bus: bus, now: time.Now}
}

func (s *Store) Save(session model.Session) error {
	if strings.TrimSpace(session.AccessToken) == "" {
		return fmt.Errorf("save session: %w", model.ErrMissingToken)
	}

	userData, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Put(map[string]string{
		KeyAccessToken:  session.AccessToken,
		KeyRefreshToken: session.RefreshToken,
		KeyUserData:     string(userData),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.publishLocked(event.TypeSessionSaved)
	return nil
}

// Load returns the stored session. It reports false when the access token or
// the user data is missing, or when the user data is not a JSON object.
// Profile fields of the wrong type are dropped, not fatal.
func (s *Store) Load() (model.Session, bool) {
	s.mu.RLock()
	values, err := s.backend.Get(allKeys...)
	s.mu.RUnlock()
	if err != nil {
		slog.Warn("credential store read failed", "error", err)
		return model.Session{}, false
	}

	access := values[KeyAccessToken]
	rawUser, hasUser := values[KeyUserData]
	if strings.TrimSpace(access) == "" || !hasUser {
		return model.Session{}, false
	}

	user, ok := decodeUser(rawUser)
	if !ok {
		return model.Session{}, false
	}

	return model.Session{
		AccessToken:  access,
		RefreshToken: values[KeyRefreshToken],
		User:         user,
	}, true
}

// Clear removes every session key. Clearing an empty store is a no-op that
// still succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(allKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.publishLocked(event.TypeSessionCleared)
	return nil
}

// Revision increases on every successful Save or Clear.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Subscribe returns a channel of store changes and its unsubscribe function.
func (s *Store) Subscribe() (<-chan event.Event, func()) {
	return s.bus.Subscribe()
}

func (s *Store) publishLocked(typ event.Type) {
	s.revision++
	s.bus.Publish(event.Event{Type: typ, Revision: s.revision, Timestamp: s.now().UTC()})
}

// decodeUser accepts any JSON object. Fields of an unexpected type are left
// empty instead of invalidating the session; an unusable id then simply never
// matches an owner.
func decodeUser(raw string) (model.UserProfile, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return model.UserProfile{}, false
	}

	var user model.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err == nil {
		return user, true
	}

	user = model.UserProfile{}
	for key, value := range fields {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			continue
		}
		var field model.UserProfile
		if err := json.Unmarshal(single, &field); err != nil {
			continue
		}
		mergeProfile(&user, field)
	}
	return user, true
}

func mergeProfile(dst *model.UserProfile, src model.UserProfile) {
	if src.ID != "" {
		dst.ID = src.ID
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.FirstName != "" {
		dst.FirstName = src.FirstName
	}
	if src.LastName != "" {
		dst.LastName = src.LastName
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.PhoneNumber != "" {
		dst.PhoneNumber = src.PhoneNumber
	}
}
