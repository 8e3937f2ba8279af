package auth

import (
	"fmt"

	"github.com/VitaminP8/blogery/internal/model"
)

// Owned - ресурс, у которого есть автор.
type Owned interface {
	OwnerID() string
}

func IsOwner(principalID string, resource Owned) bool {
	return principalID != "" && resource != nil && resource.OwnerID() == principalID
}

// Authorize возвращает model.ErrForbidden, если principalID не автор ресурса.
func Authorize(principalID string, resource Owned) error {
	if !IsOwner(principalID, resource) {
		return fmt.Errorf("%w: you are not the author", model.ErrForbidden)
	}
	return nil
}
