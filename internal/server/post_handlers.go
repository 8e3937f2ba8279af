package server

import (
	"github.com/VitaminP8/blogery/internal/model"
	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.posts.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (s *Server) GetPost(c *fiber.Ctx) error {
	found, err := s.posts.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(found)
}

func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	created, err := s.posts.Create(c.UserContext(), principalFrom(c).ID, req.Title, req.Content, req.Category)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdatePost принимает только title, content и category; остальные поля тела игнорируются.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var patch model.PostPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	updated, err := s.posts.Update(c.UserContext(), principalFrom(c).ID, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.posts.Delete(c.UserContext(), principalFrom(c).ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) LikePost(c *fiber.Ctx) error {
	liked, err := s.posts.Like(c.UserContext(), principalFrom(c).ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(liked)
}

func (s *Server) UnlikePost(c *fiber.Ctx) error {
	unliked, err := s.posts.Unlike(c.UserContext(), principalFrom(c).ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(unliked)
}
