package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/post"
)

// MockPostStorage реализует post.PostStorage для тестирования.
// Поля *Err позволяют сымитировать отказ хранилища.
type MockPostStorage struct {
	mu     sync.Mutex
	posts  map[string]*model.Post
	nextID int

	CreateErr error
	GetErr    error
	ListErr   error
	SaveErr   error
	DeleteErr error
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts:  make(map[string]*model.Post),
		nextID: 1,
	}
}

func (m *MockPostStorage) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	created := p.Clone()
	created.ID = strconv.Itoa(m.nextID)
	m.nextID++
	if created.Likes == nil {
		created.Likes = []*model.Like{}
	}

	m.posts[created.ID] = created
	return created.Clone(), nil
}

func (m *MockPostStorage) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}
	return p.Clone(), nil
}

func (m *MockPostStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	posts := make([]*model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p.Clone())
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt != posts[j].CreatedAt {
			return posts[i].CreatedAt > posts[j].CreatedAt
		}
		a, _ := strconv.Atoi(posts[i].ID)
		b, _ := strconv.Atoi(posts[j].ID)
		return a > b
	})
	return posts, nil
}

func (m *MockPostStorage) SavePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	m.posts[p.ID] = p.Clone()
	return p.Clone(), nil
}

func (m *MockPostStorage) DeletePostById(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}
	delete(m.posts, id)
	return nil
}

// Count - вспомогательный метод для тестирования
func (m *MockPostStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}
