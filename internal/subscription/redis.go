package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/redis/go-redis/v9"
)

const redisChannelPrefix = "postwall:"

// RedisManager - шина событий поверх Redis Pub/Sub, общая для нескольких экземпляров сервера.
type RedisManager struct {
	client *redis.Client
}

func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func (m *RedisManager) Subscribe(ctx context.Context, topic string) (<-chan *model.Post, func(), error) {
	ps := m.client.Subscribe(ctx, redisChannel(topic))

	// ждем подтверждения подписки, иначе ранние публикации потеряются
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan *model.Post, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once

	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	go func() {
		defer close(out)

		msgs := ps.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				post, err := decodePost(msg.Payload)
				if err != nil {
					log.Printf("failed to decode event from %s: %v", msg.Channel, err)
					continue
				}

				select {
				case out <- post:
				case <-done:
					return
				case <-ctx.Done():
					cancel()
					return
				}
			}
		}
	}()

	return out, cancel, nil
}

func (m *RedisManager) Publish(ctx context.Context, topic string, post *model.Post) error {
	payload, err := encodePost(post)
	if err != nil {
		return err
	}

	if err := m.client.Publish(ctx, redisChannel(topic), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func redisChannel(topic string) string {
	return redisChannelPrefix + topic
}

func encodePost(post *model.Post) ([]byte, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}
	return payload, nil
}

func decodePost(payload string) (*model.Post, error) {
	var post model.Post
	if err := json.Unmarshal([]byte(payload), &post); err != nil {
		return nil, err
	}
	if post.Likes == nil {
		post.Likes = []*model.Like{}
	}
	return &post, nil
}
