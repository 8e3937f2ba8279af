package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/VitaminP8/blogery/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func createTestPost(t *testing.T, storage *PostMemoryStorage, authorID string) *model.Post {
	post, err := storage.CreatePost(context.Background(), &model.Post{
		Title:    "Test post",
		Content:  "Test content",
		Category: "go",
		AuthorID: authorID,
	})
	require.NoError(t, err)
	return post
}

func TestPostMemoryStorage_CreatePost(t *testing.T) {
	storage := NewPostMemoryStorage()

	t.Run("Success post creation", func(t *testing.T) {
		post := createTestPost(t, storage, "1")
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "Test post", post.Title)
		assert.Equal(t, "1", post.AuthorID)
		assert.Empty(t, post.Likes)
		assert.False(t, post.CreatedAt.IsZero())

		postFromStorage, err := storage.GetPostByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, postFromStorage.ID)
	})
}

func TestPostMemoryStorage_GetPostByID(t *testing.T) {
	storage := NewPostMemoryStorage()
	post := createTestPost(t, storage, "1")

	t.Run("Getting exists post", func(t *testing.T) {
		retrieved, err := storage.GetPostByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, post, retrieved)
	})

	t.Run("Trying to get not exist post", func(t *testing.T) {
		_, err := storage.GetPostByID(context.Background(), "999")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Returned post is a copy", func(t *testing.T) {
		retrieved, err := storage.GetPostByID(context.Background(), post.ID)
		require.NoError(t, err)
		retrieved.Title = "changed outside"
		retrieved.Likes = append(retrieved.Likes, "42")

		again, err := storage.GetPostByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test post", again.Title)
		assert.Empty(t, again.Likes)
	})
}

func TestPostMemoryStorage_GetAllPosts(t *testing.T) {
	storage := NewPostMemoryStorage()
	first := createTestPost(t, storage, "1")
	second := createTestPost(t, storage, "2")
	third := createTestPost(t, storage, "1")

	t.Run("Get all posts in insertion order", func(t *testing.T) {
		posts, err := storage.GetAllPosts(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
	})

	t.Run("Get posts by author", func(t *testing.T) {
		posts, err := storage.GetPostsByAuthor(context.Background(), "1")
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, first.ID, posts[0].ID)
		assert.Equal(t, third.ID, posts[1].ID)
	})

	t.Run("Author without posts", func(t *testing.T) {
		posts, err := storage.GetPostsByAuthor(context.Background(), "100")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestPostMemoryStorage_UpdatePost(t *testing.T) {
	storage := NewPostMemoryStorage()
	post := createTestPost(t, storage, "1")

	t.Run("Only provided fields change", func(t *testing.T) {
		updated, err := storage.UpdatePost(context.Background(), post.ID, model.PostPatch{Title: strPtr("New title")})
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "Test content", updated.Content)
		assert.Equal(t, "go", updated.Category)
		assert.Equal(t, "1", updated.AuthorID)
	})

	t.Run("Update not exist post", func(t *testing.T) {
		_, err := storage.UpdatePost(context.Background(), "999", model.PostPatch{Title: strPtr("x")})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPostMemoryStorage_DeletePostByID(t *testing.T) {
	storage := NewPostMemoryStorage()
	post := createTestPost(t, storage, "1")

	t.Run("Delete post", func(t *testing.T) {
		require.NoError(t, storage.DeletePostByID(context.Background(), post.ID))

		_, err := storage.GetPostByID(context.Background(), post.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		posts, err := storage.GetAllPosts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("Delete not exist post", func(t *testing.T) {
		err := storage.DeletePostByID(context.Background(), post.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPostMemoryStorage_Likes(t *testing.T) {
	storage := NewPostMemoryStorage()
	post := createTestPost(t, storage, "1")
	ctx := context.Background()

	t.Run("Like twice keeps one entry", func(t *testing.T) {
		liked, err := storage.AddLiker(ctx, post.ID, "2")
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, liked.Likes)

		liked, err = storage.AddLiker(ctx, post.ID, "2")
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, liked.Likes)
		assert.Equal(t, 1, liked.LikesCount)
	})

	t.Run("Unlike of absent user is a no-op", func(t *testing.T) {
		unliked, err := storage.RemoveLiker(ctx, post.ID, "3")
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, unliked.Likes)
	})

	t.Run("Unlike removes user", func(t *testing.T) {
		unliked, err := storage.RemoveLiker(ctx, post.ID, "2")
		require.NoError(t, err)
		assert.Empty(t, unliked.Likes)
	})

	t.Run("Like not exist post", func(t *testing.T) {
		_, err := storage.AddLiker(ctx, "999", "2")
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = storage.RemoveLiker(ctx, "999", "2")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPostMemoryStorage_ConcurrentOperations(t *testing.T) {
	t.Run("Concurrent post creation", func(t *testing.T) {
		storage := NewPostMemoryStorage()
		numGoroutines := 50

		var wg sync.WaitGroup
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(i int) {
				defer wg.Done()
				_, err := storage.CreatePost(context.Background(), &model.Post{
					Title:    "Post " + strconv.Itoa(i),
					Content:  "Content",
					AuthorID: strconv.Itoa(i%5 + 1),
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		posts, err := storage.GetAllPosts(context.Background())
		require.NoError(t, err)
		assert.Len(t, posts, numGoroutines)

		// все ID уникальны
		ids := make(map[string]bool)
		for _, p := range posts {
			ids[p.ID] = true
		}
		assert.Len(t, ids, numGoroutines)
	})

	t.Run("Concurrent likes and updates do not lose likers", func(t *testing.T) {
		storage := NewPostMemoryStorage()
		post := createTestPost(t, storage, "1")
		numUsers := 40

		var wg sync.WaitGroup
		wg.Add(numUsers * 2)
		for i := 0; i < numUsers; i++ {
			go func(i int) {
				defer wg.Done()
				_, err := storage.AddLiker(context.Background(), post.ID, strconv.Itoa(100+i))
				assert.NoError(t, err)
			}(i)
			go func(i int) {
				defer wg.Done()
				_, err := storage.UpdatePost(context.Background(), post.ID, model.PostPatch{Title: strPtr("Title " + strconv.Itoa(i))})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		final, err := storage.GetPostByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Len(t, final.Likes, numUsers)
	})
}
