package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/user"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования
type MockUserStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User // username -> user
	passwords map[string]string      // username -> password
	nextID    int

	Err error
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:     make(map[string]*model.User),
		passwords: make(map[string]string),
		nextID:    1,
	}
}

// RegisterUser имитирует регистрацию пользователя, пароль хранится как есть
func (m *MockUserStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	if _, exists := m.users[username]; exists {
		return nil, fmt.Errorf("%w: %s", user.ErrUserExists, username)
	}

	u := &model.User{
		ID:        strconv.Itoa(m.nextID),
		Username:  username,
		Email:     email,
		CreatedAt: "2024-01-01T00:00:00.000Z",
	}
	m.nextID++

	m.users[username] = u
	m.passwords[username] = password

	copied := *u
	return &copied, nil
}

// Authenticate имитирует проверку пароля
func (m *MockUserStorage) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	u, exists := m.users[username]
	if !exists || m.passwords[username] != password {
		return nil, user.ErrInvalidCredentials
	}

	copied := *u
	return &copied, nil
}
