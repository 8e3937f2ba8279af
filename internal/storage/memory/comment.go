package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
)

type CommentMemoryStorage struct {
	mu       sync.Mutex
	comments map[string]*model.Comment
	nextID   int
}

func NewCommentMemoryStorage() *CommentMemoryStorage {
	return &CommentMemoryStorage{
		comments: make(map[string]*model.Comment),
		nextID:   1,
	}
}

func (s *CommentMemoryStorage) CreateComment(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextID)
	s.nextID++

	stored := &model.Comment{
		ID:        id,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: time.Now().UTC(),
	}
	s.comments[id] = stored

	result := *stored
	return &result, nil
}

func (s *CommentMemoryStorage) GetCommentsByPost(_ context.Context, postID string) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := []*model.Comment{}
	for _, comment := range s.comments {
		if comment.PostID == postID {
			c := *comment
			comments = append(comments, &c)
		}
	}

	// Сортируем по CreatedAt (по возрастанию), при равенстве - по порядку создания
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return idLess(comments[i].ID, comments[j].ID)
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}

func idLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ai < bi
}
