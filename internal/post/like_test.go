package post

import (
	"testing"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	t.Run("Like then unlike restores the like set", func(t *testing.T) {
		p := &model.Post{
			ID:    "1",
			Likes: []*model.Like{{Username: "bob", CreatedAt: "2026-01-01T00:00:00.000Z"}},
		}

		added := ToggleLike(p, "alice", "2026-01-02T00:00:00.000Z")
		assert.True(t, added)
		require.Len(t, p.Likes, 2)
		assert.Equal(t, "alice", p.Likes[1].Username)
		assert.True(t, LikedBy(p, "alice"))

		added = ToggleLike(p, "alice", "2026-01-03T00:00:00.000Z")
		assert.False(t, added)
		require.Len(t, p.Likes, 1)
		assert.Equal(t, "bob", p.Likes[0].Username)
		assert.False(t, LikedBy(p, "alice"))
	})

	t.Run("Unlike keeps order of other likes", func(t *testing.T) {
		p := &model.Post{Likes: []*model.Like{{Username: "a"}, {Username: "b"}, {Username: "c"}}}

		ToggleLike(p, "b", "")

		require.Len(t, p.Likes, 2)
		assert.Equal(t, "a", p.Likes[0].Username)
		assert.Equal(t, "c", p.Likes[1].Username)
	})

	t.Run("Unlike does not touch the shared backing array", func(t *testing.T) {
		likes := []*model.Like{{Username: "a"}, {Username: "b"}}
		p := &model.Post{Likes: likes}

		ToggleLike(p, "a", "")

		assert.Equal(t, "a", likes[0].Username)
		assert.Equal(t, "b", likes[1].Username)
	})

	t.Run("Unlike removes duplicate likes of the user", func(t *testing.T) {
		p := &model.Post{Likes: []*model.Like{{Username: "alice"}, {Username: "bob"}, {Username: "alice"}}}

		added := ToggleLike(p, "alice", "")

		assert.False(t, added)
		require.Len(t, p.Likes, 1)
		assert.Equal(t, "bob", p.Likes[0].Username)
		assert.False(t, LikedBy(p, "alice"))
	})

	t.Run("First like on empty post", func(t *testing.T) {
		p := &model.Post{}

		assert.True(t, ToggleLike(p, "alice", "2026-01-01T00:00:00.000Z"))
		assert.Len(t, p.Likes, 1)
	})
}
