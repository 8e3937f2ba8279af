package server

import (
	"fmt"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register создает пользователя и возвращает его вместе с токеном
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	created, token, err := s.users.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: created})
}

func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	found, token, err := s.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(authResponse{Token: token, User: found})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: invalid request body", model.ErrInvalidInput)
	}
	return nil
}
