package credential

import (
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	return NewService(NewBcryptHasher(bcrypt.MinCost), NewJWTCodec("test_secret_key_for_jwt"), 24*time.Hour)
}

func TestService_HashAndVerify(t *testing.T) {
	svc := newTestService()

	t.Run("Correct password verifies", func(t *testing.T) {
		hashed, err := svc.Hash("password123")
		require.NoError(t, err)
		assert.NotEqual(t, "password123", hashed)
		assert.True(t, svc.Verify("password123", hashed))
	})

	t.Run("Wrong password does not verify", func(t *testing.T) {
		hashed, err := svc.Hash("password123")
		require.NoError(t, err)
		assert.False(t, svc.Verify("wrongpassword", hashed))
	})

	t.Run("Hash is salted", func(t *testing.T) {
		first, err := svc.Hash("same")
		require.NoError(t, err)
		second, err := svc.Hash("same")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("Garbage hash returns false", func(t *testing.T) {
		assert.False(t, svc.Verify("password123", "not-a-hash"))
	})
}

func TestService_Tokens(t *testing.T) {
	svc := newTestService()

	t.Run("Round trip returns same user", func(t *testing.T) {
		for _, id := range []string{"1", "42", "65f1c0ffee00000000000001"} {
			token, err := svc.IssueToken(id)
			require.NoError(t, err)
			// JWT состоит из трех частей
			assert.Len(t, strings.Split(token, "."), 3)

			userID, err := svc.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, id, userID)
		}
	})

	t.Run("Token expires after one day", func(t *testing.T) {
		codec := NewJWTCodec("test_secret_key_for_jwt")
		codec.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
		expiredSvc := NewService(NewBcryptHasher(bcrypt.MinCost), codec, 24*time.Hour)

		token, err := expiredSvc.IssueToken("1")
		require.NoError(t, err)

		_, err = expiredSvc.VerifyToken(token)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
		assert.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("Token signed with another key is rejected", func(t *testing.T) {
		other := NewService(NewBcryptHasher(bcrypt.MinCost), NewJWTCodec("another_secret"), time.Hour)
		token, err := other.IssueToken("1")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("Malformed token is rejected", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, model.ErrInvalidToken)

		_, err = svc.VerifyToken("")
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("Token with foreign signing method is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("Token without expiry is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"})
		signed, err := token.SignedString([]byte("test_secret_key_for_jwt"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.ErrorIs(t, err, model.ErrInvalidToken)
	})

	t.Run("Empty user id cannot get a token", func(t *testing.T) {
		_, err := svc.IssueToken("")
		assert.Error(t, err)
	})
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).cost)
}
