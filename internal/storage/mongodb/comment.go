package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/blogery/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Author    primitive.ObjectID `bson:"author"`
	Post      primitive.ObjectID `bson:"post"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type CommentMongoStorage struct {
	comments *mongo.Collection
}

func NewCommentMongoStorage(db *mongo.Database) *CommentMongoStorage {
	return &CommentMongoStorage{comments: db.Collection(commentsCollection)}
}

func (s *CommentMongoStorage) CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	post, ok := parseObjectID(comment.PostID)
	if !ok {
		return nil, notFound("post", comment.PostID)
	}
	author, ok := parseObjectID(comment.AuthorID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed author id %q", model.ErrInvalidInput, comment.AuthorID)
	}

	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		Content:   comment.Content,
		Author:    author,
		Post:      post,
		CreatedAt: now(),
	}

	if _, err := s.comments.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}
	return doc.toModel(), nil
}

func (s *CommentMongoStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	results := []*model.Comment{}

	post, ok := parseObjectID(postID)
	if !ok {
		return results, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.comments.Find(ctx, bson.M{"post": post}, opts)
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("could not decode comments: %w", err)
	}

	for i := range docs {
		results = append(results, docs[i].toModel())
	}
	return results, nil
}

func (d *commentDocument) toModel() *model.Comment {
	return &model.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.Post.Hex(),
		AuthorID:  d.Author.Hex(),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}
