// Package memory keeps repository state in process memory. Contents are lost
// on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
)

// Store implements repository.UserRepository and repository.SettingRepository.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User // keyed by id
	byEmail  map[string]string       // email -> id
	settings map[string]domain.Setting
}

var (
	_ repository.UserRepository    = (*Store)(nil)
	_ repository.SettingRepository = (*Store)(nil)
)

// New constructs an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		byEmail:  make(map[string]string),
		settings: make(map[string]domain.Setting),
	}
}

// CreateUser inserts user, rejecting an email that is already present.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	s.users[user.ID] = cloneUser(user)
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(user), nil
}

func (s *Store) UpsertSetting(_ context.Context, setting domain.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[setting.ID] = setting
	return nil
}

func (s *Store) GetSetting(_ context.Context, id string) (*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &setting, nil
}

// ListSettings returns all settings ordered by id.
func (s *Store) ListSettings(_ context.Context) ([]domain.Setting, error) {
	s.mu.RLock()
	out := make([]domain.Setting, 0, len(s.settings))
	for _, setting := range s.settings {
		out = append(out, setting)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(context.Context) error {
	return nil
}

func cloneUser(user *domain.User) *domain.User {
	copy := *user
	copy.PasswordHash = append([]byte(nil), user.PasswordHash...)
	return &copy
}
