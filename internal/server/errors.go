package server

import (
	"errors"
	"log/slog"

	"github.com/VitaminP8/blogery/internal/logger"
	"github.com/VitaminP8/blogery/internal/model"
	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor сопоставляет доменную ошибку со статусом HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
	}

	status := statusFor(err)
	response := ErrorResponse{Error: err.Error(), Code: model.Code(err)}

	if status == fiber.StatusInternalServerError {
		logger.FromContext(c.UserContext(), s.logger).Error("request failed",
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		response.Error = "Internal server error"
	}

	return c.Status(status).JSON(response)
}
