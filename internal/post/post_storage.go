package post

import (
	"context"

	"github.com/VitaminP8/blogery/internal/model"
)

// PostStorage - хранилище постов. Каждая изменяющая операция атомарна
// в пределах одного поста; отсутствующий пост - model.ErrNotFound.
type PostStorage interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	GetAllPosts(ctx context.Context) ([]*model.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)
	UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error)
	DeletePostByID(ctx context.Context, id string) error
	AddLiker(ctx context.Context, id, userID string) (*model.Post, error)
	RemoveLiker(ctx context.Context, id, userID string) (*model.Post, error)
}
