package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
)

// MockPostStorage реализует post.PostStorage для тестов: хранит посты в памяти,
// считает вызовы и может вернуть заданную ошибку из любого метода.
type MockPostStorage struct {
	mu    sync.Mutex
	posts map[string]*model.Post
	calls map[string]int

	// Err, если задана, возвращается всеми методами
	Err error
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts: make(map[string]*model.Post),
		calls: make(map[string]int),
	}
}

// Calls возвращает число вызовов метода
func (m *MockPostStorage) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Put кладет пост напрямую, минуя CreatePost
func (m *MockPostStorage) Put(post *model.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *post
	m.posts[post.ID] = &stored
}

func (m *MockPostStorage) begin(method string) error {
	m.calls[method]++
	return m.Err
}

func (m *MockPostStorage) CreatePost(_ context.Context, post *model.Post) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("CreatePost"); err != nil {
		return nil, err
	}

	stored := *post
	stored.ID = strconv.Itoa(len(m.posts) + 1)
	stored.Likes = []string{}
	stored.CreatedAt = time.Now()
	m.posts[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (m *MockPostStorage) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("GetPostByID"); err != nil {
		return nil, err
	}

	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}
	result := *post
	return &result, nil
}

func (m *MockPostStorage) GetAllPosts(_ context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("GetAllPosts"); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(m.posts))
	for _, post := range m.posts {
		p := *post
		posts = append(posts, &p)
	}
	return posts, nil
}

func (m *MockPostStorage) GetPostsByAuthor(_ context.Context, authorID string) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("GetPostsByAuthor"); err != nil {
		return nil, err
	}

	posts := []*model.Post{}
	for _, post := range m.posts {
		if post.AuthorID == authorID {
			p := *post
			posts = append(posts, &p)
		}
	}
	return posts, nil
}

func (m *MockPostStorage) UpdatePost(_ context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("UpdatePost"); err != nil {
		return nil, err
	}

	post, ok := m.posts[id]
	if !ok {
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
	result := *post
	return &result, nil
}

func (m *MockPostStorage) DeletePostByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("DeletePostByID"); err != nil {
		return err
	}

	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}
	delete(m.posts, id)
	return nil
}

func (m *MockPostStorage) AddLiker(_ context.Context, id, userID string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("AddLiker"); err != nil {
		return nil, err
	}

	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}
	if !post.LikedBy(userID) {
		post.Likes = append(post.Likes, userID)
	}
	result := *post
	result.Likes = append([]string{}, post.Likes...)
	return &result, nil
}

func (m *MockPostStorage) RemoveLiker(_ context.Context, id, userID string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("RemoveLiker"); err != nil {
		return nil, err
	}

	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, model.ErrNotFound)
	}
	likes := []string{}
	for _, liker := range post.Likes {
		if liker != userID {
			likes = append(likes, liker)
		}
	}
	post.Likes = likes
	result := *post
	result.Likes = append([]string{}, likes...)
	return &result, nil
}
