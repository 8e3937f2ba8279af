package user

import (
	"context"

	"github.com/VitaminP8/blogery/internal/model"
)

// UserStorage хранит пользователей. CreateUser обязан вернуть
// model.ErrDuplicateEmail / model.ErrDuplicateUsername при нарушении уникальности,
// методы поиска - model.ErrNotFound.
type UserStorage interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
