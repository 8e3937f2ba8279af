package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/blogery/internal/model"
)

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Gate - единственное место, где токен превращается в Principal.
// Остальные компоненты токены не разбирают.
type Gate struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewGate(tokens TokenVerifier, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Resolve проводит запрос по состояниям Anonymous -> TokenPresented -> Authenticated/Rejected.
// Ошибка возвращается только при сбое хранилища, не при плохом токене.
func (g *Gate) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{State: Anonymous}, nil
	}

	identity := Identity{State: TokenPresented}

	userID, err := g.tokens.VerifyToken(token)
	if err != nil {
		identity.State = Rejected
		identity.Err = model.ErrInvalidToken
		return identity, nil
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			identity.State = Rejected
			identity.Err = fmt.Errorf("%w: user no longer exists", model.ErrUnauthenticated)
			return identity, nil
		}
		return identity, fmt.Errorf("could not resolve principal: %w", err)
	}

	identity.State = Authenticated
	identity.Principal = &Principal{ID: user.ID, Username: user.Username}
	return identity, nil
}
