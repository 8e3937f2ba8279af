package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/internal/model"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hashed string) bool
}

// Claims - то, что зашивается в токен.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

type TokenCodec interface {
	Sign(claims Claims, ttl time.Duration) (string, error)
	Verify(token string) (Claims, error)
}

// Service объединяет хеширование паролей и выпуск токенов.
type Service struct {
	hasher PasswordHasher
	tokens TokenCodec
	ttl    time.Duration
}

func NewService(hasher PasswordHasher, tokens TokenCodec, ttl time.Duration) *Service {
	return &Service{hasher: hasher, tokens: tokens, ttl: ttl}
}

// NewServiceFromConfig собирает сервис на bcrypt и HS256 JWT.
func NewServiceFromConfig(cfg *config.Config) *Service {
	return NewService(NewBcryptHasher(cfg.BcryptCost), NewJWTCodec(cfg.JWTSecret), cfg.TokenTTL)
}

func (s *Service) Hash(secret string) (string, error) {
	return s.hasher.Hash(secret)
}

func (s *Service) Verify(secret, hashed string) bool {
	return s.hasher.Verify(secret, hashed)
}

func (s *Service) IssueToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("cannot issue token for empty user id")
	}
	return s.tokens.Sign(Claims{UserID: userID}, s.ttl)
}

// VerifyToken возвращает id пользователя или model.ErrInvalidToken.
func (s *Service) VerifyToken(token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}

type JWTCodec struct {
	secret []byte
	now    func() time.Time
}

func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), now: time.Now}
}

func (c *JWTCodec) Sign(claims Claims, ttl time.Duration) (string, error) {
	issuedAt := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Verify(tokenStr string) (Claims, error) {
	var registered jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &registered, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, model.ErrInvalidToken
	}

	// токен без срока действия не принимаем
	if registered.Subject == "" || registered.ExpiresAt == nil {
		return Claims{}, model.ErrInvalidToken
	}

	return Claims{UserID: registered.Subject, ExpiresAt: registered.ExpiresAt.Time}, nil
}
