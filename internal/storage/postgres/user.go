package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/user"
	"github.com/VitaminP8/postwall/models"
	"github.com/jinzhu/gorm"

	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct {
	db *gorm.DB
}

func NewUserPostgresStorage(db *gorm.DB) *UserPostgresStorage {
	return &UserPostgresStorage{db: db}
}

func (s *UserPostgresStorage) RegisterUser(ctx context.Context, username, email, password string) (*model.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := s.db.Where("username = ?", username).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("%w: %s", user.ErrUserExists, username)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: model.FormatTime(time.Now()),
	}

	err = s.db.Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toModelUser(row), nil
}

func (s *UserPostgresStorage) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var row models.User
	err := s.db.Where("username = ?", username).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("%w: user %s not found", user.ErrInvalidCredentials, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", user.ErrInvalidCredentials, err)
	}

	return toModelUser(&row), nil
}

func toModelUser(row *models.User) *model.User {
	return &model.User{
		ID:        fmt.Sprint(row.ID),
		Username:  row.Username,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
	}
}
