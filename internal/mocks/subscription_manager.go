package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/subscription"
)

// MockSubscriptionManager доставляет события как настоящая шина
// и дополнительно запоминает все публикации.
type MockSubscriptionManager struct {
	bus *subscription.SubscriptionManager

	mu        sync.Mutex
	published map[string][]*model.Post // topic -> опубликованные посты

	PublishErr   error
	SubscribeErr error
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		bus:       subscription.NewSubscriptionManager(),
		published: make(map[string][]*model.Post),
	}
}

func (m *MockSubscriptionManager) Subscribe(ctx context.Context, topic string) (<-chan *model.Post, func(), error) {
	if m.SubscribeErr != nil {
		return nil, nil, m.SubscribeErr
	}
	return m.bus.Subscribe(ctx, topic)
}

func (m *MockSubscriptionManager) Publish(ctx context.Context, topic string, post *model.Post) error {
	m.mu.Lock()
	m.published[topic] = append(m.published[topic], post.Clone())
	m.mu.Unlock()

	if m.PublishErr != nil {
		return m.PublishErr
	}
	// как сетевая шина, отмененный контекст не доходит до брокера
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bus.Publish(ctx, topic, post)
}

// GetPublished - вспомогательный метод для тестирования,
// возвращает все посты, опубликованные в тему
func (m *MockSubscriptionManager) GetPublished(topic string) []*model.Post {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*model.Post(nil), m.published[topic]...)
}

func (m *MockSubscriptionManager) Subscribers(topic string) int {
	return m.bus.Subscribers(topic)
}
