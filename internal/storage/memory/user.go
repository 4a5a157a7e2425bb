package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User
	passwords map[string]string
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:     make(map[string]*model.User),
		passwords: make(map[string]string),
	}
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	// bcrypt медленный, считаем хеш до захвата мьютекса
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, fmt.Errorf("%w: %s", user.ErrUserExists, username)
	}

	u := &model.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: model.FormatTime(time.Now()),
	}

	s.users[username] = u
	s.passwords[username] = string(hashedPassword)

	copied := *u
	return &copied, nil
}

func (s *UserMemoryStorage) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	s.mu.Lock()
	u, exists := s.users[username]
	hashedPassword := s.passwords[username]
	s.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("%w: user %s not found", user.ErrInvalidCredentials, username)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: password for user %s is incorrect", user.ErrInvalidCredentials, username)
	}

	copied := *u
	return &copied, nil
}
