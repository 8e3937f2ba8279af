package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/blogery/internal/model"
)

type contextKey string

const identityKey = contextKey("identity")

// State - этап определения личности внутри одного запроса.
type State int

const (
	Anonymous State = iota
	TokenPresented
	Authenticated
	Rejected
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case TokenPresented:
		return "token_presented"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Principal - аутентифицированный пользователь текущего запроса.
type Principal struct {
	ID       string
	Username string
}

// Identity - итог разбора токена. Для Rejected в Err лежит причина.
type Identity struct {
	State     State
	Principal *Principal
	Err       error
}

// Сохраняет результат разбора токена в контексте
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// WithPrincipal - сокращение для уже аутентифицированного пользователя
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return WithIdentity(ctx, Identity{State: Authenticated, Principal: &principal})
}

// Достает Identity из контекста; если ничего нет - Anonymous
func IdentityFromContext(ctx context.Context) Identity {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return Identity{State: Anonymous}
	}
	return identity
}

// PrincipalFromContext возвращает пользователя для защищенных операций
// или ошибку, оборачивающую model.ErrUnauthenticated.
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	identity := IdentityFromContext(ctx)

	switch identity.State {
	case Authenticated:
		if identity.Principal == nil || identity.Principal.ID == "" {
			return nil, fmt.Errorf("%w: empty principal", model.ErrUnauthenticated)
		}
		return identity.Principal, nil
	case Rejected:
		if identity.Err != nil {
			return nil, identity.Err
		}
		return nil, model.ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: token required", model.ErrUnauthenticated)
	}
}

// ExtractTokenFromHeader разбирает заголовок вида "Bearer <token>"
func ExtractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
