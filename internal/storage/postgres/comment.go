package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct {
	db *gorm.DB
}

func NewCommentPostgresStorage(db *gorm.DB) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db}
}

func (s *CommentPostgresStorage) CreateComment(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	postID, ok := parseID(comment.PostID)
	if !ok {
		return nil, notFound("post", comment.PostID)
	}
	userID, ok := parseID(comment.AuthorID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed author id %q", model.ErrInvalidInput, comment.AuthorID)
	}

	row := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: comment.Content,
	}

	err := s.db.Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	return toComment(row), nil
}

func (s *CommentPostgresStorage) GetCommentsByPost(_ context.Context, postID string) ([]*model.Comment, error) {
	results := []*model.Comment{}

	pk, ok := parseID(postID)
	if !ok {
		return results, nil
	}

	var rows []models.Comment
	err := s.db.Where("post_id = ?", pk).Order("created_at asc, id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	for i := range rows {
		results = append(results, toComment(&rows[i]))
	}
	return results, nil
}

func toComment(row *models.Comment) *model.Comment {
	return &model.Comment{
		ID:        formatID(row.ID),
		PostID:    formatID(row.PostID),
		AuthorID:  formatID(row.UserID),
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}
}
