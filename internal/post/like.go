package post

import "github.com/VitaminP8/postwall/graph/model"

// ToggleLike убирает лайк пользователя, если он есть, иначе добавляет новый.
// Возвращает true, если лайк был добавлен.
func ToggleLike(p *model.Post, username, createdAt string) bool {
	if LikedBy(p, username) {
		// убираем все лайки пользователя, дубли после гонки тоже
		likes := make([]*model.Like, 0, len(p.Likes))
		for _, like := range p.Likes {
			if like.Username != username {
				likes = append(likes, like)
			}
		}
		p.Likes = likes
		return false
	}

	p.Likes = append(p.Likes, &model.Like{
		Username:  username,
		CreatedAt: createdAt,
	})
	return true
}

// LikedBy - есть ли у поста лайк от пользователя.
func LikedBy(p *model.Post, username string) bool {
	for _, like := range p.Likes {
		if like.Username == username {
			return true
		}
	}
	return false
}
