package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/model"
)

const (
	MaxTitleLength   = 100
	MinContentLength = 50
)

// AuthorLookup нужен, чтобы подставить имя автора в ответ.
type AuthorLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Store - граница, на которой проверяются данные поста и права автора.
type Store struct {
	posts   PostStorage
	authors AuthorLookup
}

func NewStore(posts PostStorage, authors AuthorLookup) *Store {
	return &Store{posts: posts, authors: authors}
}

func (s *Store) Create(ctx context.Context, authorID, title, content, category string) (*model.Post, error) {
	if authorID == "" {
		return nil, fmt.Errorf("%w: author is required", model.ErrUnauthenticated)
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	created, err := s.posts.CreatePost(ctx, &model.Post{
		Title:    title,
		Content:  content,
		Category: strings.TrimSpace(category),
		AuthorID: authorID,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return s.withAuthor(ctx, created)
}

func (s *Store) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}
	return s.withAuthors(ctx, posts)
}

func (s *Store) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	posts, err := s.posts.GetPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("could not get posts of user %s: %w", authorID, err)
	}
	return s.withAuthors(ctx, posts)
}

func (s *Store) GetByID(ctx context.Context, id string) (*model.Post, error) {
	found, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, found)
}

// Update применяет только переданные поля. Права проверяются до валидации,
// так что чужой пост дает Forbidden при любом содержимом patch.
func (s *Store) Update(ctx context.Context, requesterID, id string, patch model.PostPatch) (*model.Post, error) {
	current, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Content != nil {
		if err := validateContent(*patch.Content); err != nil {
			return nil, err
		}
	}
	if patch.Category != nil {
		trimmed := strings.TrimSpace(*patch.Category)
		patch.Category = &trimmed
	}

	if patch.IsEmpty() {
		return s.withAuthor(ctx, current)
	}

	updated, err := s.posts.UpdatePost(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, updated)
}

// Delete удаляет пост. Комментарии к нему остаются.
func (s *Store) Delete(ctx context.Context, requesterID, id string) error {
	if _, err := s.owned(ctx, requesterID, id); err != nil {
		return err
	}
	return s.posts.DeletePostByID(ctx, id)
}

// Like идемпотентен; лайк своего поста разрешен.
func (s *Store) Like(ctx context.Context, userID, id string) (*model.Post, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", model.ErrUnauthenticated)
	}
	liked, err := s.posts.AddLiker(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, liked)
}

// Unlike идемпотентен: снятие отсутствующего лайка ничего не меняет.
func (s *Store) Unlike(ctx context.Context, userID, id string) (*model.Post, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", model.ErrUnauthenticated)
	}
	unliked, err := s.posts.RemoveLiker(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, unliked)
}

func (s *Store) owned(ctx context.Context, requesterID, id string) (*model.Post, error) {
	if requesterID == "" {
		return nil, fmt.Errorf("%w: token required", model.ErrUnauthenticated)
	}

	current, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(requesterID, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *Store) withAuthor(ctx context.Context, p *model.Post) (*model.Post, error) {
	posts, err := s.withAuthors(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (s *Store) withAuthors(ctx context.Context, posts []*model.Post) ([]*model.Post, error) {
	names := make(map[string]string)
	for _, p := range posts {
		name, ok := names[p.AuthorID]
		if !ok {
			author, err := s.authors.GetUserByID(ctx, p.AuthorID)
			switch {
			case err == nil:
				name = author.Username
			case errors.Is(err, model.ErrNotFound):
				// автор мог исчезнуть, пост все равно отдаем
			default:
				return nil, fmt.Errorf("could not resolve author %s: %w", p.AuthorID, err)
			}
			names[p.AuthorID] = name
		}

		p.Author = model.Author{ID: p.AuthorID, Username: name}
		if p.Likes == nil {
			p.Likes = []string{}
		}
		p.LikesCount = len(p.Likes)
	}
	return posts, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", model.ErrInvalidInput, MaxTitleLength)
	}
	return nil
}

func validateContent(content string) error {
	if utf8.RuneCountInString(content) < MinContentLength {
		return fmt.Errorf("%w: content must be at least %d characters", model.ErrInvalidInput, MinContentLength)
	}
	return nil
}
