package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/post"
	"github.com/google/uuid"
)

type PostMemoryStorage struct {
	mu    sync.Mutex
	posts map[string]*model.Post
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts: make(map[string]*model.Post),
	}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil {
		return nil, errors.New("could not create post: nil post")
	}

	stored := p.Clone()
	stored.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *PostMemoryStorage) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}

	return p.Clone(), nil
}

func (s *PostMemoryStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	s.mu.Lock()
	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p.Clone())
	}
	s.mu.Unlock()

	// map не хранит порядок: сортируем от новых к старым, при равных createdAt - по ID
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt != posts[j].CreatedAt {
			return posts[i].CreatedAt > posts[j].CreatedAt
		}
		return posts[i].ID > posts[j].ID
	})

	return posts, nil
}

func (s *PostMemoryStorage) SavePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil || p.ID == "" {
		return nil, errors.New("could not save post: missing id")
	}

	stored := p.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *PostMemoryStorage) DeletePostById(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}

	delete(s.posts, id)
	return nil
}
