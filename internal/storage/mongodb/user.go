package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type UserMongoStorage struct {
	users *mongo.Collection
}

func NewUserMongoStorage(db *mongo.Database) *UserMongoStorage {
	return &UserMongoStorage{users: db.Collection(usersCollection)}
}

// CreateUser полагается на уникальные индексы из EnsureIndexes.
func (s *UserMongoStorage) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: now(),
	}

	_, err := s.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, duplicateError(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return doc.toModel(), nil
}

func (s *UserMongoStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, notFound("user", id)
	}
	return s.findOne(ctx, bson.M{"_id": oid}, "user "+id)
}

func (s *UserMongoStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, "user with email "+email)
}

func (s *UserMongoStorage) findOne(ctx context.Context, filter bson.M, what string) (*model.User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get %s: %w", what, err)
	}
	return doc.toModel(), nil
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}
