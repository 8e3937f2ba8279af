package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VitaminP8/blogery/internal/model"
)

// Credentials - то, что нужно каталогу от сервиса учетных данных.
type Credentials interface {
	Hash(secret string) (string, error)
	Verify(secret, hashed string) bool
	IssueToken(userID string) (string, error)
}

// Directory регистрирует и находит пользователей.
type Directory struct {
	store UserStorage
	creds Credentials
}

func NewDirectory(store UserStorage, creds Credentials) *Directory {
	return &Directory{store: store, creds: creds}
}

// Register создает пользователя и сразу выдает ему токен.
func (d *Directory) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username, email and password are required", model.ErrInvalidInput)
	}

	hashed, err := d.creds.Hash(password)
	if err != nil {
		return nil, "", err
	}

	created, err := d.store.CreateUser(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := d.creds.IssueToken(created.ID)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// Authenticate проверяет email и пароль. Отсутствующий email и неверный пароль
// неразличимы для вызывающего.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	found, err := d.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", model.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !d.creds.Verify(password, found.PasswordHash) {
		return nil, "", model.ErrInvalidCredentials
	}

	token, err := d.creds.IssueToken(found.ID)
	if err != nil {
		return nil, "", err
	}

	return found, token, nil
}

func (d *Directory) FindByID(ctx context.Context, id string) (*model.User, error) {
	return d.store.GetUserByID(ctx, id)
}
