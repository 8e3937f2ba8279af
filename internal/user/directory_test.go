package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/credential"
	"github.com/VitaminP8/blogery/internal/mocks"
	"github.com/VitaminP8/blogery/internal/model"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupDirectory() (*Directory, *mocks.MockUserStorage, *credential.Service) {
	store := mocks.NewMockUserStorage()
	creds := credential.NewService(credential.NewBcryptHasher(bcrypt.MinCost), credential.NewJWTCodec("directory_test_secret"), time.Hour)
	return NewDirectory(store, creds), store, creds
}

func TestDirectory_Register(t *testing.T) {
	dir, _, creds := setupDirectory()
	ctx := context.Background()

	t.Run("Success registration", func(t *testing.T) {
		username, email := gofakeit.Username(), gofakeit.Email()

		created, token, err := dir.Register(ctx, username, email, "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, username, created.Username)
		assert.Equal(t, email, created.Email)
		assert.NotEqual(t, "password123", created.PasswordHash)
		assert.True(t, creds.Verify("password123", created.PasswordHash))

		userID, err := creds.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, userID)
	})

	t.Run("Fields are trimmed", func(t *testing.T) {
		created, _, err := dir.Register(ctx, "  trimmed  ", "  trimmed@example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "trimmed", created.Username)
		assert.Equal(t, "trimmed@example.com", created.Email)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, _, err := dir.Register(ctx, "first", "dup@example.com", "password123")
		require.NoError(t, err)

		_, _, err = dir.Register(ctx, "second", "dup@example.com", "password123")
		assert.ErrorIs(t, err, model.ErrDuplicateEmail)
		assert.ErrorIs(t, err, model.ErrDuplicate)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		_, _, err := dir.Register(ctx, "taken", "taken1@example.com", "password123")
		require.NoError(t, err)

		_, _, err = dir.Register(ctx, "taken", "taken2@example.com", "password123")
		assert.ErrorIs(t, err, model.ErrDuplicateUsername)
	})

	missing := []struct {
		name, username, email, password string
	}{
		{"No username", "", "a@example.com", "password123"},
		{"Blank username", "   ", "a@example.com", "password123"},
		{"No email", "a", "", "password123"},
		{"No password", "a", "a@example.com", ""},
	}
	for _, tc := range missing {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := dir.Register(ctx, tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestDirectory_Authenticate(t *testing.T) {
	dir, _, creds := setupDirectory()
	ctx := context.Background()

	registered, _, err := dir.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("Success login", func(t *testing.T) {
		found, token, err := dir.Authenticate(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, found.ID)

		userID, err := creds.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, userID)
	})

	t.Run("Wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, _, wrongPassword := dir.Authenticate(ctx, "alice@example.com", "wrongpassword")
		_, _, unknownEmail := dir.Authenticate(ctx, "nobody@example.com", "password123")

		assert.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, model.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("Email match is exact", func(t *testing.T) {
		_, _, err := dir.Authenticate(ctx, "ALICE@example.com", "password123")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestDirectory_StorageFailure(t *testing.T) {
	dir, store, _ := setupDirectory()
	ctx := context.Background()
	store.Err = errors.New("storage down")

	_, _, err := dir.Register(ctx, "alice", "alice@example.com", "password123")
	assert.ErrorContains(t, err, "storage down")

	_, _, err = dir.Authenticate(ctx, "alice@example.com", "password123")
	assert.ErrorContains(t, err, "storage down")
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = dir.FindByID(ctx, "1")
	assert.ErrorContains(t, err, "storage down")
}
