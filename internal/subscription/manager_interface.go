package subscription

import (
	"context"

	"github.com/VitaminP8/postwall/graph/model"
)

// TopicNewPost - тема, в которую публикуется каждый созданный пост.
const TopicNewPost = "NEW_POST"

type Manager interface {
	// Subscribe возвращает канал событий темы и функцию отписки.
	// Канал закрывается после отписки или отмены ctx.
	Subscribe(ctx context.Context, topic string) (<-chan *model.Post, func(), error)
	Publish(ctx context.Context, topic string, post *model.Post) error
}
