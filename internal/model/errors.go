package model

import (
	"errors"
	"fmt"
)

// Ошибки домена. Хранилища и сервисы оборачивают их через fmt.Errorf("...: %w", ...),
// транспортный слой сопоставляет их со статусами через errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")

	ErrDuplicate         = errors.New("already exists")
	ErrDuplicateEmail    = fmt.Errorf("email %w", ErrDuplicate)
	ErrDuplicateUsername = fmt.Errorf("username %w", ErrDuplicate)

	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
)

// Code возвращает машиночитаемый код ошибки для ответа клиенту.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}
