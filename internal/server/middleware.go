package server

import (
	"log/slog"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	principalKey    = "principal"
)

func (s *Server) requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// requestLogger пишет одну строку на запрос. Ошибку обработчика он сам
// отдает в ErrorHandler, чтобы в лог попал итоговый статус.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := s.handleError(c, err); herr != nil {
				return herr
			}
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("latency", time.Since(start)),
		}
		if principal := auth.IdentityFromContext(c.UserContext()).Principal; principal != nil {
			attrs = append(attrs, slog.String("user_id", principal.ID))
		}

		logger.FromContext(c.UserContext(), s.logger).Info("request", attrs...)
		return nil
	}
}

// resolveIdentity прогоняет токен через Gate для каждого запроса.
// Плохой токен не прерывает публичные запросы, ими займется requireAuth.
func (s *Server) resolveIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))

		identity, err := s.gate.Resolve(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.SetUserContext(auth.WithIdentity(c.UserContext(), identity))
		return c.Next()
	}
}

// requireAuth не пускает к обработчику без состояния Authenticated.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := auth.PrincipalFromContext(c.UserContext())
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

func principalFrom(c *fiber.Ctx) *auth.Principal {
	principal, _ := c.Locals(principalKey).(*auth.Principal)
	return principal
}
