package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	postKeyPrefix        = "post:%s"
	postVersionKeyPrefix = "post:%s:version"

	// versionTTL должен быть больше ttl записи.
	versionTTL = 24 * time.Hour
)

// errStaleEntry - запись устарела: пока шло чтение из хранилища, пост изменили.
var errStaleEntry = errors.New("post cache entry is stale")

func PostKey(id string) string {
	return fmt.Sprintf(postKeyPrefix, id)
}

func versionKey(id string) string {
	return fmt.Sprintf(postVersionKeyPrefix, id)
}

// PostCache - cache-aside для GetPostByID. Любое изменение поста увеличивает
// версию и удаляет ключ. Запись в кэш идет под WATCH версии, поэтому чтение,
// начатое до изменения, не вернет старый пост в кэш.
// Ошибки Redis только логируются: запрос обслуживает нижнее хранилище.
type PostCache struct {
	post.PostStorage

	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	lookups *prometheus.CounterVec
}

func NewPostCache(inner post.PostStorage, client *redis.Client, ttl time.Duration, logger *slog.Logger) *PostCache {
	return &PostCache{
		PostStorage: inner,
		client:      client,
		ttl:         ttl,
		logger:      logger,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogery_post_cache_lookups_total",
			Help: "Post cache lookups by result",
		}, []string{"result"}),
	}
}

// Collector отдает счетчики кэша для регистрации в реестре метрик.
func (c *PostCache) Collector() prometheus.Collector {
	return c.lookups
}

func (c *PostCache) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	key := PostKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		entry := cachedPost{Post: &model.Post{}}
		if err := json.Unmarshal(raw, &entry); err == nil {
			c.lookups.WithLabelValues("hit").Inc()
			entry.Post.AuthorID = entry.AuthorID
			return entry.Post, nil
		}
		c.logger.Warn("corrupted post cache entry", slog.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.lookups.WithLabelValues("error").Inc()
		c.logger.Warn("post cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	c.lookups.WithLabelValues("miss").Inc()
	// версию читаем до хранилища: любое изменение после этого момента ее поменяет
	version, versionErr := c.version(ctx, id)

	found, err := c.PostStorage.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if versionErr == nil {
		c.store(ctx, found, version)
	}
	return found, nil
}

func (c *PostCache) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	defer c.invalidate(ctx, id)
	return c.PostStorage.UpdatePost(ctx, id, patch)
}

func (c *PostCache) DeletePostByID(ctx context.Context, id string) error {
	defer c.invalidate(ctx, id)
	return c.PostStorage.DeletePostByID(ctx, id)
}

func (c *PostCache) AddLiker(ctx context.Context, id, userID string) (*model.Post, error) {
	defer c.invalidate(ctx, id)
	return c.PostStorage.AddLiker(ctx, id, userID)
}

func (c *PostCache) RemoveLiker(ctx context.Context, id, userID string) (*model.Post, error) {
	defer c.invalidate(ctx, id)
	return c.PostStorage.RemoveLiker(ctx, id, userID)
}

// cachedPost хранит AuthorID, который скрыт в JSON модели.
type cachedPost struct {
	*model.Post
	AuthorID string `json:"authorId"`
}

func (c *PostCache) version(ctx context.Context, id string) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// store пишет пост, только если версия не менялась с момента чтения.
func (c *PostCache) store(ctx context.Context, p *model.Post, version int64) {
	entry := cachedPost{Post: p, AuthorID: p.AuthorID}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}

	verKey := versionKey(p.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleEntry
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, PostKey(p.ID), raw, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleEntry), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("skip stale post cache write", slog.String("id", p.ID))
	default:
		c.logger.Warn("post cache write failed", slog.String("id", p.ID), slog.Any("error", err))
	}
}

func (c *PostCache) invalidate(ctx context.Context, id string) {
	verKey := versionKey(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, versionTTL)
		pipe.Del(ctx, PostKey(id))
		return nil
	})
	if err != nil {
		c.logger.Warn("post cache invalidation failed", slog.String("id", id), slog.Any("error", err))
	}
}
