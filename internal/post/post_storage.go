package post

import (
	"context"
	"errors"

	"github.com/VitaminP8/postwall/graph/model"
)

// ErrPostNotFound возвращают все хранилища, если поста нет (в том числе при некорректном id).
var ErrPostNotFound = errors.New("post not found")

type PostStorage interface {
	// CreatePost сохраняет новый пост и возвращает его с присвоенным ID.
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	GetPostById(ctx context.Context, id string) (*model.Post, error)
	// GetAllPosts возвращает посты от новых к старым.
	GetAllPosts(ctx context.Context) ([]*model.Post, error)
	// SavePost перезаписывает пост целиком, включая лайки (upsert).
	SavePost(ctx context.Context, post *model.Post) (*model.Post, error)
	DeletePostById(ctx context.Context, id string) error
}
