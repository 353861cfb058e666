package user

import (
	"context"
	"strings"
	"sync"

	"medix/internal/auth/models"
	"medix/pkg/platform/sentinel"
)

// InMemory is a map-backed user store for tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]*models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[string]*models.User)}
}

// Seed adds an account, assigning an ID.
func (s *InMemory) Seed(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u.ID = s.nextID
	stored := u
	s.users[strings.ToLower(u.Email)] = &stored
	return &stored
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *u
	return &out, nil
}
