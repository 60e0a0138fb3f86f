// Package devapi is an in-memory crowdfunding backend used for local
// development and integration tests of the client.
package devapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"crowdfund-client/internal/model"
)

type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) Profile() model.UserProfile {
	return model.UserProfile{
		ID:          model.Ident(formatID(u.ID)),
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

type Project struct {
	ID           int64
	Title        string
	Description  string
	TargetCents  int64
	CurrentCents int64
	StartDate    time.Time
	EndDate      time.Time
	OwnerID      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store keeps users and projects in memory. Ids are assigned sequentially
// from 1, like database primary keys.
type Store struct {
	mu            sync.RWMutex
	usersByID     map[int64]User
	usersByEmail  map[string]int64
	projects      map[int64]Project
	nextUserID    int64
	nextProjectID int64
}

func NewStore() *Store {
	return &Store{
		usersByID:     map[int64]User{},
		usersByEmail:  map[string]int64{},
		projects:      map[int64]Project{},
		nextUserID:    1,
		nextProjectID: 1,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser assigns the user an id. It fails with model.ErrUserAlreadyExists
// when the email is taken.
func (s *Store) CreateUser(user User) (User, error) {
	key := normalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[key]; exists {
		return User{}, model.ErrUserAlreadyExists
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.usersByID[user.ID] = user
	s.usersByEmail[key] = user.ID
	return user, nil
}

func (s *Store) UserByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.usersByEmail[normalizeEmail(email)]
	if !exists {
		return User{}, model.ErrUserNotFound
	}
	return s.usersByID[id], nil
}

func (s *Store) UserByID(id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByID[id]
	if !exists {
		return User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) CreateProject(project Project) Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	project.ID = s.nextProjectID
	s.nextProjectID++
	s.projects[project.ID] = project
	return project
}

func (s *Store) Project(id int64) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, exists := s.projects[id]
	if !exists {
		return Project{}, model.ErrProjectNotFound
	}
	return project, nil
}

// SaveProject replaces an existing project.
func (s *Store) SaveProject(project Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.projects[project.ID]; !exists {
		return model.ErrProjectNotFound
	}
	s.projects[project.ID] = project
	return nil
}

// Projects returns every project, newest first.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
