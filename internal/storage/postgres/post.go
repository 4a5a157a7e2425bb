package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/post"
	"github.com/VitaminP8/postwall/models"
	"github.com/jinzhu/gorm"
)

// gorm v1 не принимает context, поэтому ctx в методах не используется.
type PostPostgresStorage struct {
	db *gorm.DB
}

func NewPostPostgresStorage(db *gorm.DB) *PostPostgresStorage {
	return &PostPostgresStorage{db: db}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil {
		return nil, errors.New("could not create post: nil post")
	}

	row := models.Post{
		Body:      p.Body,
		UserID:    p.UserID,
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("could not create post: %w", tx.Error)
	}

	if err := tx.Create(&row).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	if err := insertLikes(tx, row.ID, p.Likes); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	created := p.Clone()
	created.ID = fmt.Sprint(row.ID)
	return created, nil
}

func (s *PostPostgresStorage) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	postID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var row models.Post
	err = s.db.Preload("Likes", orderLikes).Where("id = ?", postID).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	return toModelPost(row), nil
}

func (s *PostPostgresStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	var rows []models.Post
	err := s.db.Preload("Likes", orderLikes).Order("created_at desc").Order("id desc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	results := make([]*model.Post, 0, len(rows))
	for _, row := range rows {
		results = append(results, toModelPost(row))
	}

	return results, nil
}

// SavePost обновляет пост и полностью заменяет его лайки в одной транзакции.
func (s *PostPostgresStorage) SavePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil {
		return nil, errors.New("could not save post: nil post")
	}
	postID, err := parseID(p.ID)
	if err != nil {
		return nil, err
	}

	row := models.Post{
		ID:        postID,
		Body:      p.Body,
		UserID:    p.UserID,
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("could not save post: %w", tx.Error)
	}

	// Save делает UPDATE, а если строки нет - создает ее
	if err := tx.Save(&row).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not save post: %w", err)
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not save post likes: %w", err)
	}

	if err := insertLikes(tx, postID, p.Likes); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not save post likes: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("could not save post: %w", err)
	}

	return p.Clone(), nil
}

func (s *PostPostgresStorage) DeletePostById(ctx context.Context, id string) error {
	postID, err := parseID(id)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not delete post: %w", tx.Error)
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post likes: %w", err)
	}

	res := tx.Where("id = ?", postID).Delete(&models.Post{})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}

	return nil
}

func insertLikes(tx *gorm.DB, postID uint, likes []*model.Like) error {
	for _, like := range likes {
		row := models.Like{
			PostID:    postID,
			Username:  like.Username,
			CreatedAt: like.CreatedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func orderLikes(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// parseID: id в Postgres - число; любая другая строка означает отсутствующий пост.
func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s", post.ErrPostNotFound, id)
	}
	return uint(n), nil
}

func toModelPost(row models.Post) *model.Post {
	likes := make([]*model.Like, 0, len(row.Likes))
	for _, like := range row.Likes {
		likes = append(likes, &model.Like{
			Username:  like.Username,
			CreatedAt: like.CreatedAt,
		})
	}

	return &model.Post{
		ID:        fmt.Sprint(row.ID),
		Body:      row.Body,
		UserID:    row.UserID,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
		Likes:     likes,
	}
}
