package user

import (
	"context"
	"errors"

	"github.com/VitaminP8/postwall/graph/model"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStorage хранит пользователей; токены выпускает резолвер (auth.TokenManager).
type UserStorage interface {
	RegisterUser(ctx context.Context, username, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}
