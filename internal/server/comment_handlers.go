package server

import "github.com/gofiber/fiber/v2"

type createCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	created, err := s.comments.Create(c.UserContext(), principalFrom(c).ID, c.Params("postId"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) ListComments(c *fiber.Ctx) error {
	comments, err := s.comments.ListByPost(c.UserContext(), c.Params("postId"))
	if err != nil {
		return err
	}
	return c.JSON(comments)
}
