package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/VitaminP8/blogery/internal/model"
)

const MaxContentLength = 2000

// PostLookup проверяет, что пост существует.
type PostLookup interface {
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
}

type AuthorLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

type Store struct {
	comments CommentStorage
	posts    PostLookup
	authors  AuthorLookup
}

func NewStore(comments CommentStorage, posts PostLookup, authors AuthorLookup) *Store {
	return &Store{comments: comments, posts: posts, authors: authors}
}

// Create добавляет комментарий к существующему посту.
func (s *Store) Create(ctx context.Context, authorID, postID, content string) (*model.Comment, error) {
	if authorID == "" {
		return nil, fmt.Errorf("%w: author is required", model.ErrUnauthenticated)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, fmt.Errorf("%w: content must be at most %d characters", model.ErrInvalidInput, MaxContentLength)
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	author, err := s.authors.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	created, err := s.comments.CreateComment(ctx, &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	created.Author = model.Author{ID: author.ID, Username: author.Username}
	return created, nil
}

// ListByPost отдает комментарии поста от старых к новым.
// Для удаленного поста возвращается пустой список.
func (s *Store) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	comments, err := s.comments.GetCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("could not get comments of post %s: %w", postID, err)
	}

	names := make(map[string]string)
	for _, c := range comments {
		name, ok := names[c.AuthorID]
		if !ok {
			author, err := s.authors.GetUserByID(ctx, c.AuthorID)
			switch {
			case err == nil:
				name = author.Username
			case errors.Is(err, model.ErrNotFound):
			default:
				return nil, fmt.Errorf("could not resolve author %s: %w", c.AuthorID, err)
			}
			names[c.AuthorID] = name
		}
		c.Author = model.Author{ID: c.AuthorID, Username: name}
	}

	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}
