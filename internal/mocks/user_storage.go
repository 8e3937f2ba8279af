package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/blogery/internal/model"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования
type MockUserStorage struct {
	mu     sync.Mutex
	users  map[string]*model.User // id -> user
	emails map[string]string      // email -> id
	nextID int

	// Err, если задана, возвращается всеми методами
	Err error
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:  make(map[string]*model.User),
		emails: make(map[string]string),
		nextID: 1,
	}
}

func (m *MockUserStorage) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	if _, exists := m.emails[user.Email]; exists {
		return nil, model.ErrDuplicateEmail
	}
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return nil, model.ErrDuplicateUsername
		}
	}

	stored := *user
	stored.ID = strconv.Itoa(m.nextID)
	m.nextID++
	m.users[stored.ID] = &stored
	m.emails[stored.Email] = stored.ID

	result := stored
	return &result, nil
}

func (m *MockUserStorage) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}
	result := *user
	return &result, nil
}

func (m *MockUserStorage) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	id, ok := m.emails[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, model.ErrNotFound)
	}
	result := *m.users[id]
	return &result, nil
}
