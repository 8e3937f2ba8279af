package comment

import (
	"context"

	"github.com/VitaminP8/blogery/internal/model"
)

// CommentStorage хранит комментарии. GetCommentsByPost отдает их
// по возрастанию времени создания.
type CommentStorage interface {
	CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error)
}
