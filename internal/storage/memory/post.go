package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
)

// PostMemoryStorage держит посты в памяти. Каждая операция выполняется целиком
// под мьютексом, поэтому лайк и правка одного поста не перемешиваются.
type PostMemoryStorage struct {
	mu     sync.Mutex
	posts  map[string]*model.Post
	order  []string // порядок вставки
	nextId int
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[string]*model.Post),
		nextId: 1,
	}
}

func (s *PostMemoryStorage) CreatePost(_ context.Context, post *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextId)
	s.nextId++

	stored := &model.Post{
		ID:        id,
		Title:     post.Title,
		Content:   post.Content,
		Category:  post.Category,
		AuthorID:  post.AuthorID,
		Likes:     []string{},
		CreatedAt: time.Now().UTC(),
	}

	s.posts[id] = stored
	s.order = append(s.order, id)
	return clonePost(stored), nil
}

func (s *PostMemoryStorage) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}

	return clonePost(post), nil
}

func (s *PostMemoryStorage) GetAllPosts(_ context.Context) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*model.Post, 0, len(s.posts))
	for _, id := range s.order {
		if post, ok := s.posts[id]; ok {
			posts = append(posts, clonePost(post))
		}
	}

	return posts, nil
}

func (s *PostMemoryStorage) GetPostsByAuthor(_ context.Context, authorID string) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := []*model.Post{}
	for _, id := range s.order {
		if post, ok := s.posts[id]; ok && post.AuthorID == authorID {
			posts = append(posts, clonePost(post))
		}
	}

	return posts, nil
}

func (s *PostMemoryStorage) UpdatePost(_ context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Category != nil {
		post.Category = *patch.Category
	}

	return clonePost(post), nil
}

func (s *PostMemoryStorage) DeletePostByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}

	delete(s.posts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *PostMemoryStorage) AddLiker(_ context.Context, id, userID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}

	if !post.LikedBy(userID) {
		post.Likes = append(post.Likes, userID)
	}

	return clonePost(post), nil
}

func (s *PostMemoryStorage) RemoveLiker(_ context.Context, id, userID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}

	likes := post.Likes[:0]
	for _, liker := range post.Likes {
		if liker != userID {
			likes = append(likes, liker)
		}
	}
	post.Likes = likes

	return clonePost(post), nil
}

// clonePost отдает копию, чтобы вызывающий не мог менять хранимый пост в обход мьютекса
func clonePost(post *model.Post) *model.Post {
	result := *post
	result.Likes = append([]string{}, post.Likes...)
	result.LikesCount = len(result.Likes)
	return &result
}
