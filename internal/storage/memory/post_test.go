package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(body, username string, createdAt time.Time) *model.Post {
	return &model.Post{
		Body:      body,
		UserID:    "id-" + username,
		Username:  username,
		CreatedAt: model.FormatTime(createdAt),
		Likes:     []*model.Like{},
	}
}

func TestPostMemoryStorage_CreatePost(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()

	t.Run("Success post creation", func(t *testing.T) {
		p := newTestPost("Test content", "alice", time.Now())

		created, err := storage.CreatePost(ctx, p)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Test content", created.Body)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "id-alice", created.UserID)
		assert.Empty(t, p.ID, "input post must not be modified")

		postFromStorage, err := storage.GetPostById(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, postFromStorage)
	})

	t.Run("Every post gets its own id", func(t *testing.T) {
		first, err := storage.CreatePost(ctx, newTestPost("one", "alice", time.Now()))
		require.NoError(t, err)
		second, err := storage.CreatePost(ctx, newTestPost("two", "alice", time.Now()))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Error: nil post", func(t *testing.T) {
		_, err := storage.CreatePost(ctx, nil)
		assert.Error(t, err)
	})
}

func TestPostMemoryStorage_GetPostById(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()

	created, err := storage.CreatePost(ctx, newTestPost("Test Post", "alice", time.Now()))
	require.NoError(t, err)

	t.Run("Getting exists post", func(t *testing.T) {
		retrieved, err := storage.GetPostById(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, retrieved.ID)
		assert.Equal(t, created.Body, retrieved.Body)
		assert.Equal(t, created.Username, retrieved.Username)
	})

	t.Run("Trying to get not exist post", func(t *testing.T) {
		_, err := storage.GetPostById(ctx, "23425532")

		assert.ErrorIs(t, err, post.ErrPostNotFound)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("Returned post is a copy", func(t *testing.T) {
		retrieved, err := storage.GetPostById(ctx, created.ID)
		require.NoError(t, err)

		retrieved.Body = "changed"
		post.ToggleLike(retrieved, "bob", model.FormatTime(time.Now()))

		again, err := storage.GetPostById(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Post", again.Body)
		assert.Empty(t, again.Likes)
	})
}

func TestPostMemoryStorage_GetAllPosts(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()

	t.Run("Empty storage", func(t *testing.T) {
		posts, err := storage.GetAllPosts(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("Posts are ordered newest first", func(t *testing.T) {
		base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		// создаем в перемешанном порядке
		for _, offset := range []int{2, 0, 3, 1} {
			_, err := storage.CreatePost(ctx, newTestPost("post "+strconv.Itoa(offset), "alice", base.Add(time.Duration(offset)*time.Minute)))
			require.NoError(t, err)
		}

		posts, err := storage.GetAllPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 4)

		assert.Equal(t, "post 3", posts[0].Body)
		assert.Equal(t, "post 0", posts[3].Body)
		for i := 1; i < len(posts); i++ {
			assert.GreaterOrEqual(t, posts[i-1].CreatedAt, posts[i].CreatedAt)
		}
	})
}

func TestPostMemoryStorage_SavePost(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()

	created, err := storage.CreatePost(ctx, newTestPost("Test Post", "alice", time.Now()))
	require.NoError(t, err)

	t.Run("Save updated likes", func(t *testing.T) {
		post.ToggleLike(created, "bob", model.FormatTime(time.Now()))

		saved, err := storage.SavePost(ctx, created)
		require.NoError(t, err)
		require.Len(t, saved.Likes, 1)

		retrieved, err := storage.GetPostById(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, retrieved.Likes, 1)
		assert.Equal(t, "bob", retrieved.Likes[0].Username)
	})

	t.Run("Save inserts unknown post", func(t *testing.T) {
		p := newTestPost("restored", "carol", time.Now())
		p.ID = "restored-id"

		_, err := storage.SavePost(ctx, p)
		require.NoError(t, err)

		retrieved, err := storage.GetPostById(ctx, "restored-id")
		require.NoError(t, err)
		assert.Equal(t, "restored", retrieved.Body)
	})

	t.Run("Error: post without id", func(t *testing.T) {
		_, err := storage.SavePost(ctx, newTestPost("no id", "alice", time.Now()))
		assert.Error(t, err)
	})
}

func TestPostMemoryStorage_DeletePostById(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()

	created, err := storage.CreatePost(ctx, newTestPost("Test Post", "alice", time.Now()))
	require.NoError(t, err)

	t.Run("Delete exists post", func(t *testing.T) {
		err := storage.DeletePostById(ctx, created.ID)
		require.NoError(t, err)

		_, err = storage.GetPostById(ctx, created.ID)
		assert.ErrorIs(t, err, post.ErrPostNotFound)
	})

	t.Run("Delete not exist post", func(t *testing.T) {
		err := storage.DeletePostById(ctx, created.ID)
		assert.ErrorIs(t, err, post.ErrPostNotFound)
	})
}

func TestPostMemoryStorage_ConcurrentOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Concurrent post creation", func(t *testing.T) {
		storage := NewPostMemoryStorage()
		var wg sync.WaitGroup
		numPosts := 50

		for i := 0; i < numPosts; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				_, err := storage.CreatePost(ctx, newTestPost(fmt.Sprintf("post %d", idx), "alice", time.Now()))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		posts, err := storage.GetAllPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, numPosts)
	})

	t.Run("Concurrent read and save", func(t *testing.T) {
		storage := NewPostMemoryStorage()
		created, err := storage.CreatePost(ctx, newTestPost("shared", "alice", time.Now()))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, err := storage.GetPostById(ctx, created.ID)
				assert.NoError(t, err)
			}()
			go func(idx int) {
				defer wg.Done()
				p := created.Clone()
				p.Body = fmt.Sprintf("body %d", idx)
				_, err := storage.SavePost(ctx, p)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		retrieved, err := storage.GetPostById(ctx, created.ID)
		require.NoError(t, err)
		assert.Contains(t, retrieved.Body, "body ")
	})
}
