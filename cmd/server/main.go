package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/cache"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/internal/credential"
	"github.com/VitaminP8/blogery/internal/logger"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/server"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/internal/storage/mongodb"
	"github.com/VitaminP8/blogery/internal/storage/postgres"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/prometheus/client_golang/prometheus"
)

// storages - выбранная реализация хранилищ и функция ее закрытия
type storages struct {
	posts    post.PostStorage
	comments comment.CommentStorage
	users    user.UserStorage
	close    func(context.Context) error
}

func main() {
	storageType := flag.String("storage", "", "Тип хранилища: memory, postgres или mongo (по умолчанию STORAGE из окружения)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if *storageType != "" {
		cfg.Storage = strings.ToLower(*storageType)
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid storage flag", slog.Any("error", err))
			os.Exit(1)
		}
	}

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	ctx := context.Background()

	stores, err := openStorages(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", slog.String("storage", cfg.Storage), slog.Any("error", err))
		os.Exit(1)
	}

	var postStore post.PostStorage = stores.posts
	var collectors []prometheus.Collector
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", slog.Any("error", err))
		} else {
			defer client.Close()
			postCache := cache.NewPostCache(stores.posts, client, cfg.CacheTTL, log)
			postStore = postCache
			collectors = append(collectors, postCache.Collector())
			log.Info("post cache enabled", slog.Duration("ttl", cfg.CacheTTL))
		}
	}

	creds := credential.NewServiceFromConfig(cfg)
	directory := user.NewDirectory(stores.users, creds)

	srv := server.New(server.Deps{
		Users:      directory,
		Posts:      post.NewStore(postStore, stores.users),
		// комментарии проверяют существование поста по хранилищу, а не по кэшу
		Comments:   comment.NewStore(stores.comments, stores.posts, stores.users),
		Gate:       auth.NewGate(creds, directory),
		Logger:     log,
		Collectors: collectors,
	})

	// запуск HTTP сервера; Listen блокирует поток до Shutdown
	go func() {
		if err := srv.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server", slog.Any("error", err))
	}
	if err := stores.close(shutdownCtx); err != nil {
		log.Error("failed to close storage", slog.Any("error", err))
	}

	log.Info("server stopped")
}

func openStorages(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storages, error) {
	switch cfg.Storage {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}

		log.Info("using PostgreSQL storage")
		return &storages{
			posts:    postgres.NewPostPostgresStorage(db),
			comments: postgres.NewCommentPostgresStorage(db),
			users:    postgres.NewUserPostgresStorage(db),
			close:    func(context.Context) error { return postgres.Close(db) },
		}, nil

	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, db, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}

		log.Info("using MongoDB storage", slog.String("database", cfg.MongoDatabase))
		return &storages{
			posts:    mongodb.NewPostMongoStorage(db),
			comments: mongodb.NewCommentMongoStorage(db),
			users:    mongodb.NewUserMongoStorage(db),
			close:    client.Disconnect,
		}, nil

	default:
		log.Info("using in-memory storage")
		return &storages{
			posts:    memory.NewPostMemoryStorage(),
			comments: memory.NewCommentMemoryStorage(),
			users:    memory.NewUserMemoryStorage(),
			close:    func(context.Context) error { return nil },
		}, nil
	}
}
