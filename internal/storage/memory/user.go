package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
)

type UserMemoryStorage struct {
	mu         sync.Mutex
	users      map[string]*model.User
	byEmail    map[string]string // email -> id
	byUsername map[string]string // username -> id
	nextId     int
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:      make(map[string]*model.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		nextId:     1,
	}
}

func (s *UserMemoryStorage) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// сравнение точное, как есть
	if _, exists := s.byEmail[user.Email]; exists {
		return nil, fmt.Errorf("user %s: %w", user.Email, model.ErrDuplicateEmail)
	}
	if _, exists := s.byUsername[user.Username]; exists {
		return nil, fmt.Errorf("user %s: %w", user.Username, model.ErrDuplicateUsername)
	}

	id := strconv.Itoa(s.nextId)
	s.nextId++

	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()

	s.users[id] = &stored
	s.byEmail[stored.Email] = id
	s.byUsername[stored.Username] = id

	result := stored
	return &result, nil
}

func (s *UserMemoryStorage) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}

	result := *user
	return &result, nil
}

func (s *UserMemoryStorage) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, fmt.Errorf("user with email %s: %w", email, model.ErrNotFound)
	}

	result := *s.users[id]
	return &result, nil
}
