package model

import "time"

// TimeLayout - формат createdAt (ISO-8601 с миллисекундами, всегда UTC).
// Строки фиксированной длины, поэтому лексикографический порядок совпадает с хронологическим.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime приводит время к формату TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type Post struct {
	ID        string  `json:"id"`
	Body      string  `json:"body"`
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	CreatedAt string  `json:"createdAt"`
	Likes     []*Like `json:"likes"`
}

// LikeCount - вычисляемое поле схемы.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// Clone возвращает глубокую копию поста (хранилища не отдают наружу свои указатели).
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Likes = make([]*Like, 0, len(p.Likes))
	for _, like := range p.Likes {
		l := *like
		clone.Likes = append(clone.Likes, &l)
	}
	return &clone
}

type Like struct {
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	Token     string `json:"token"`
}

type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}
