package server

import "github.com/gofiber/fiber/v2"

// CurrentUser отдает профиль владельца токена без хэша пароля
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	found, err := s.users.FindByID(c.UserContext(), principalFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(found)
}

func (s *Server) ListUserPosts(c *fiber.Ctx) error {
	posts, err := s.posts.ListByAuthor(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}
