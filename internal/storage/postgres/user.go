package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type UserPostgresStorage struct {
	db *gorm.DB
}

func NewUserPostgresStorage(db *gorm.DB) *UserPostgresStorage {
	return &UserPostgresStorage{db: db}
}

func (s *UserPostgresStorage) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := s.db.Where("email = ?", user.Email).First(&existUser).Error
	if err == nil {
		return nil, model.ErrDuplicateEmail
	}
	err = s.db.Where("username = ?", user.Username).First(&existUser).Error
	if err == nil {
		return nil, model.ErrDuplicateUsername
	}

	row := &models.User{
		Username: user.Username,
		Email:    user.Email,
		Password: user.PasswordHash,
	}

	// уникальные индексы ловят гонку между проверкой и вставкой
	err = s.db.Create(row).Error
	switch {
	case isUniqueViolation(err, "email"):
		return nil, model.ErrDuplicateEmail
	case isUniqueViolation(err, "username"):
		return nil, model.ErrDuplicateUsername
	case err != nil:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUser(row), nil
}

func (s *UserPostgresStorage) GetUserByID(_ context.Context, id string) (*model.User, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, notFound("user", id)
	}

	var row models.User
	err := s.db.First(&row, pk).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return toUser(&row), nil
}

func (s *UserPostgresStorage) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	var row models.User
	err := s.db.Where("email = ?", email).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user with email %s: %w", email, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	return toUser(&row), nil
}

func toUser(row *models.User) *model.User {
	return &model.User{
		ID:           formatID(row.ID),
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.Password,
		CreatedAt:    row.CreatedAt,
	}
}
