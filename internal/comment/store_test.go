package comment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/mocks"
	"github.com/VitaminP8/blogery/internal/model"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenComments struct{}

func (brokenComments) CreateComment(context.Context, *model.Comment) (*model.Comment, error) {
	return nil, errors.New("disk full")
}

func (brokenComments) GetCommentsByPost(context.Context, string) ([]*model.Comment, error) {
	return nil, errors.New("disk full")
}

type fixture struct {
	store *Store
	posts *memory.PostMemoryStorage
	users *memory.UserMemoryStorage
	alice *model.User
	bob   *model.User
	post  *model.Post
}

func setup(t *testing.T) fixture {
	ctx := context.Background()
	users := memory.NewUserMemoryStorage()
	posts := memory.NewPostMemoryStorage()

	alice, err := users.CreateUser(ctx, &model.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := users.CreateUser(ctx, &model.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	p, err := posts.CreatePost(ctx, &model.Post{Title: "Title", Content: strings.Repeat("x", 60), AuthorID: alice.ID})
	require.NoError(t, err)

	return fixture{
		store: NewStore(memory.NewCommentMemoryStorage(), posts, users),
		posts: posts,
		users: users,
		alice: alice,
		bob:   bob,
		post:  p,
	}
}

func TestStore_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("Success comment creation", func(t *testing.T) {
		created, err := f.store.Create(ctx, f.bob.ID, f.post.ID, "  nice post  ")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "nice post", created.Content)
		assert.Equal(t, f.post.ID, created.PostID)
		assert.Equal(t, model.Author{ID: f.bob.ID, Username: "bob"}, created.Author)
		assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)
	})

	t.Run("Empty content", func(t *testing.T) {
		_, err := f.store.Create(ctx, f.bob.ID, f.post.ID, "   ")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("Too long content", func(t *testing.T) {
		_, err := f.store.Create(ctx, f.bob.ID, f.post.ID, strings.Repeat("c", MaxContentLength+1))
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = f.store.Create(ctx, f.bob.ID, f.post.ID, strings.Repeat("c", MaxContentLength))
		assert.NoError(t, err)
	})

	t.Run("Not exist post", func(t *testing.T) {
		_, err := f.store.Create(ctx, f.bob.ID, "999", "hi")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Not exist author", func(t *testing.T) {
		_, err := f.store.Create(ctx, "999", f.post.ID, "hi")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		_, err := f.store.Create(ctx, "", f.post.ID, "hi")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("Storage error", func(t *testing.T) {
		store := NewStore(brokenComments{}, f.posts, f.users)
		_, err := store.Create(ctx, f.bob.ID, f.post.ID, "hi")
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestStore_CommentOnDeletedPost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.posts.DeletePostByID(ctx, f.post.ID))

	_, err := f.store.Create(ctx, f.bob.ID, f.post.ID, "hi")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_ListByPost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("Empty list", func(t *testing.T) {
		comments, err := f.store.ListByPost(ctx, f.post.ID)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("Ordered by creation with authors", func(t *testing.T) {
		_, err := f.store.Create(ctx, f.bob.ID, f.post.ID, "first")
		require.NoError(t, err)
		_, err = f.store.Create(ctx, f.alice.ID, f.post.ID, "second")
		require.NoError(t, err)
		_, err = f.store.Create(ctx, f.bob.ID, f.post.ID, "third")
		require.NoError(t, err)

		comments, err := f.store.ListByPost(ctx, f.post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "bob", comments[0].Author.Username)
		assert.Equal(t, "second", comments[1].Content)
		assert.Equal(t, "alice", comments[1].Author.Username)
		assert.Equal(t, "third", comments[2].Content)
	})

	t.Run("Comments survive post deletion", func(t *testing.T) {
		require.NoError(t, f.posts.DeletePostByID(ctx, f.post.ID))

		comments, err := f.store.ListByPost(ctx, f.post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 3)
	})

	t.Run("Author lookup failure", func(t *testing.T) {
		users := mocks.NewMockUserStorage()
		users.Err = errors.New("users unavailable")
		comments := memory.NewCommentMemoryStorage()
		_, err := comments.CreateComment(ctx, &model.Comment{PostID: "1", AuthorID: "1", Content: "hi"})
		require.NoError(t, err)

		_, err = NewStore(comments, f.posts, users).ListByPost(ctx, "1")
		assert.ErrorContains(t, err, "users unavailable")
	})

	t.Run("Storage error", func(t *testing.T) {
		_, err := NewStore(brokenComments{}, f.posts, f.users).ListByPost(ctx, f.post.ID)
		assert.ErrorContains(t, err, "disk full")
	})
}
