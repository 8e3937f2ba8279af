// Package server привязывает операции блога к REST API на fiber.
package server

import (
	"context"
	"log/slog"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps - зависимости сервера. Собираются в main.
type Deps struct {
	Users    *user.Directory
	Posts    *post.Store
	Comments *comment.Store
	Gate     *auth.Gate
	Logger   *slog.Logger

	// Collectors регистрируются в реестре /metrics вместе с метриками запросов
	Collectors []prometheus.Collector
}

type Server struct {
	users    *user.Directory
	posts    *post.Store
	comments *comment.Store
	gate     *auth.Gate
	logger   *slog.Logger

	app      *fiber.App
	registry *prometheus.Registry
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		users:    deps.Users,
		posts:    deps.Posts,
		comments: deps.Comments,
		gate:     deps.Gate,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	s.registry.MustRegister(deps.Collectors...)

	s.app = fiber.New(fiber.Config{
		AppName:               "blogery",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())

	prom := fiberprometheus.NewWithRegistry(s.registry, "blogery", "http", "", nil)
	prom.RegisterAt(s.app, "/metrics")

	s.app.Use(s.requestID())
	s.app.Use(prom.Middleware)
	s.app.Use(s.requestLogger())
	s.app.Use(s.resolveIdentity())
}

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	protected := s.requireAuth()

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", s.Login)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", protected, s.CreatePost)
	posts.Post("/like/:id", protected, s.LikePost)
	posts.Post("/unlike/:id", protected, s.UnlikePost)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", protected, s.UpdatePost)
	posts.Delete("/:id", protected, s.DeletePost)

	comments := api.Group("/comments")
	comments.Post("/:postId", protected, s.CreateComment)
	comments.Get("/:postId", s.ListComments)

	users := api.Group("/users")
	users.Get("/me", protected, s.CurrentUser)
	users.Get("/:userId/posts", s.ListUserPosts)
}

// App отдает fiber-приложение, в тестах через него вызывается app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("server starting", slog.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
