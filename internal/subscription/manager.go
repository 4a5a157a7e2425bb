package subscription

import (
	"context"
	"log"
	"sync"

	"github.com/VitaminP8/postwall/graph/model"
)

// subscriberBuffer - сколько непрочитанных событий держит подписчик.
const subscriberBuffer = 16

// SubscriptionManager - шина событий внутри процесса.
type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[string][]chan *model.Post // topic -> список каналов подписчиков
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[string][]chan *model.Post),
	}
}

func (m *SubscriptionManager) Subscribe(ctx context.Context, topic string) (<-chan *model.Post, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	ch := make(chan *model.Post, subscriberBuffer)
	m.subs[topic] = append(m.subs[topic], ch)
	m.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once

	// функция для отписки, повторный вызов ничего не делает
	cancel := func() {
		once.Do(func() {
			close(done)

			m.mu.Lock()
			defer m.mu.Unlock()
			subscribers := m.subs[topic]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[topic] = append(subscribers[:i:i], subscribers[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}

// Publish рассылает пост всем текущим подписчикам темы и не ждет читателей.
// Если буфер подписчика полон, событие для него теряется, остальные его получают.
// Отмена ctx на доставку не влияет.
func (m *SubscriptionManager) Publish(ctx context.Context, topic string, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[topic] {
		select {
		case sub <- post.Clone():
		default:
			log.Printf("subscriber of %s is too slow, post %s dropped", topic, post.ID)
		}
	}

	return nil
}

// Subscribers возвращает число подписчиков темы.
func (m *SubscriptionManager) Subscribers(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[topic])
}
