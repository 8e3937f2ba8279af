package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"

	emailIndex    = "email_1"
	usernameIndex = "username_1"
)

// Connect подключается к MongoDB, проверяет соединение и создает индексы.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, db, nil
}

// EnsureIndexes создает уникальные индексы по email и username
// и индексы для выборок постов и комментариев.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(emailIndex).SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName(usernameIndex).SetUnique(true)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func parseObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, model.ErrNotFound)
}

// now отдает время с точностью BSON datetime, чтобы созданный объект
// совпадал с прочитанным из базы.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// duplicateError определяет поле по имени нарушенного индекса.
// Значение ключа в сообщении не учитывается: email может содержать "username".
func duplicateError(err error) error {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if strings.Contains(we.Message, "index: "+usernameIndex+" ") {
				return model.ErrDuplicateUsername
			}
		}
	}
	return model.ErrDuplicateEmail
}
