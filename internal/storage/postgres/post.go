package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct {
	db *gorm.DB
}

func NewPostPostgresStorage(db *gorm.DB) *PostPostgresStorage {
	return &PostPostgresStorage{db: db}
}

func (s *PostPostgresStorage) CreatePost(_ context.Context, post *model.Post) (*model.Post, error) {
	authorID, ok := parseID(post.AuthorID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed author id %q", model.ErrInvalidInput, post.AuthorID)
	}

	row := &models.Post{
		Title:    post.Title,
		Content:  post.Content,
		Category: post.Category,
		UserID:   authorID,
	}

	err := s.db.Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return toPost(row, nil), nil
}

func (s *PostPostgresStorage) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	return s.load(id)
}

func (s *PostPostgresStorage) GetAllPosts(_ context.Context) ([]*model.Post, error) {
	var rows []models.Post
	err := s.db.Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}
	return s.withLikes(rows)
}

func (s *PostPostgresStorage) GetPostsByAuthor(_ context.Context, authorID string) ([]*model.Post, error) {
	pk, ok := parseID(authorID)
	if !ok {
		return []*model.Post{}, nil
	}

	var rows []models.Post
	err := s.db.Where("user_id = ?", pk).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts by author: %w", err)
	}
	return s.withLikes(rows)
}

// UpdatePost меняет только переданные поля одним UPDATE.
func (s *PostPostgresStorage) UpdatePost(_ context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, notFound("post", id)
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Content != nil {
		fields["content"] = *patch.Content
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}

	if len(fields) > 0 {
		result := s.db.Model(&models.Post{}).Where("id = ?", pk).Updates(fields)
		if result.Error != nil {
			return nil, fmt.Errorf("could not update post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, notFound("post", id)
		}
	}

	return s.load(id)
}

func (s *PostPostgresStorage) DeletePostByID(_ context.Context, id string) error {
	pk, ok := parseID(id)
	if !ok {
		return notFound("post", id)
	}

	result := s.db.Where("id = ?", pk).Delete(&models.Post{})
	if result.Error != nil {
		return fmt.Errorf("could not delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("post", id)
	}

	return nil
}

// AddLiker вставляет строку в post_likes; повторная вставка гасится
// первичным ключом, так что конкурентные лайки не теряются и не дублируются.
func (s *PostPostgresStorage) AddLiker(_ context.Context, id, userID string) (*model.Post, error) {
	pk, uid, err := s.likeKeys(id, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Exec(
		"INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		pk, uid, time.Now().UTC(),
	).Error
	if err != nil {
		return nil, fmt.Errorf("could not like post: %w", err)
	}

	return s.load(id)
}

func (s *PostPostgresStorage) RemoveLiker(_ context.Context, id, userID string) (*model.Post, error) {
	pk, uid, err := s.likeKeys(id, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Where("post_id = ? AND user_id = ?", pk, uid).Delete(&models.PostLike{}).Error
	if err != nil {
		return nil, fmt.Errorf("could not unlike post: %w", err)
	}

	return s.load(id)
}

func (s *PostPostgresStorage) likeKeys(id, userID string) (uint, uint, error) {
	pk, ok := parseID(id)
	if !ok {
		return 0, 0, notFound("post", id)
	}
	uid, ok := parseID(userID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed user id %q", model.ErrInvalidInput, userID)
	}

	var row models.Post
	err := s.db.Select("id").First(&row, pk).Error
	if gorm.IsRecordNotFoundError(err) {
		return 0, 0, notFound("post", id)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("could not get post by id: %w", err)
	}

	return pk, uid, nil
}

func (s *PostPostgresStorage) load(id string) (*model.Post, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, notFound("post", id)
	}

	var row models.Post
	err := s.db.First(&row, pk).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, notFound("post", id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	posts, err := s.withLikes([]models.Post{row})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

// withLikes подгружает лайкнувших одним запросом на все посты.
func (s *PostPostgresStorage) withLikes(rows []models.Post) ([]*model.Post, error) {
	results := make([]*model.Post, 0, len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var likes []models.PostLike
	err := s.db.Where("post_id IN (?)", ids).Order("created_at asc, user_id asc").Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("could not get likes: %w", err)
	}

	likers := make(map[uint][]string, len(rows))
	for _, like := range likes {
		likers[like.PostID] = append(likers[like.PostID], formatID(like.UserID))
	}

	for i := range rows {
		results = append(results, toPost(&rows[i], likers[rows[i].ID]))
	}
	return results, nil
}

func toPost(row *models.Post, likes []string) *model.Post {
	if likes == nil {
		likes = []string{}
	}
	return &model.Post{
		ID:         formatID(row.ID),
		Title:      row.Title,
		Content:    row.Content,
		Category:   row.Category,
		AuthorID:   formatID(row.UserID),
		Likes:      likes,
		LikesCount: len(likes),
		CreatedAt:  row.CreatedAt,
	}
}
