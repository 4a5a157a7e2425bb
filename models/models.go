package models

// Строки таблиц для gorm-хранилища.
// Post и Like не используют gorm.Model: createdAt задает резолвер строкой ISO-8601,
// а не база данных.

type User struct {
	ID        uint   `gorm:"primary_key"`
	Username  string `gorm:"unique;not null"`
	Email     string
	Password  string
	CreatedAt string
}

type Post struct {
	ID        uint   `gorm:"primary_key"`
	Body      string `gorm:"type:text;not null"`
	UserID    string `gorm:"index"`
	Username  string
	CreatedAt string `gorm:"index"`
	Likes     []Like `gorm:"foreignkey:PostID"`
}

type Like struct {
	ID        uint `gorm:"primary_key"`
	PostID    uint `gorm:"index"`
	Username  string
	CreatedAt string
}
