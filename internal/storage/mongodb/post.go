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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Title     string               `bson:"title"`
	Content   string               `bson:"content"`
	Category  string               `bson:"category"`
	Author    primitive.ObjectID   `bson:"author"`
	Likes     []primitive.ObjectID `bson:"likes"`
	CreatedAt time.Time            `bson:"createdAt"`
}

// PostMongoStorage хранит лайки массивом внутри документа поста.
// Все изменения делаются одним атомарным update на документ.
type PostMongoStorage struct {
	posts *mongo.Collection
}

func NewPostMongoStorage(db *mongo.Database) *PostMongoStorage {
	return &PostMongoStorage{posts: db.Collection(postsCollection)}
}

func (s *PostMongoStorage) CreatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	author, ok := parseObjectID(post.AuthorID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed author id %q", model.ErrInvalidInput, post.AuthorID)
	}

	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		Content:   post.Content,
		Category:  post.Category,
		Author:    author,
		Likes:     []primitive.ObjectID{},
		CreatedAt: now(),
	}

	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}
	return doc.toModel(), nil
}

func (s *PostMongoStorage) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, notFound("post", id)
	}

	var doc postDocument
	err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("post", id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}
	return doc.toModel(), nil
}

func (s *PostMongoStorage) GetAllPosts(ctx context.Context) ([]*model.Post, error) {
	return s.find(ctx, bson.M{})
}

func (s *PostMongoStorage) GetPostsByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	oid, ok := parseObjectID(authorID)
	if !ok {
		return []*model.Post{}, nil
	}
	return s.find(ctx, bson.M{"author": oid})
}

func (s *PostMongoStorage) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if len(set) == 0 {
		return s.GetPostByID(ctx, id)
	}

	return s.modify(ctx, id, bson.M{"$set": set})
}

func (s *PostMongoStorage) DeletePostByID(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return notFound("post", id)
	}

	result, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return notFound("post", id)
	}
	return nil
}

// AddLiker использует $addToSet, поэтому повторный лайк ничего не меняет.
func (s *PostMongoStorage) AddLiker(ctx context.Context, id, userID string) (*model.Post, error) {
	uid, ok := parseObjectID(userID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed user id %q", model.ErrInvalidInput, userID)
	}
	return s.modify(ctx, id, bson.M{"$addToSet": bson.M{"likes": uid}})
}

func (s *PostMongoStorage) RemoveLiker(ctx context.Context, id, userID string) (*model.Post, error) {
	uid, ok := parseObjectID(userID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed user id %q", model.ErrInvalidInput, userID)
	}
	return s.modify(ctx, id, bson.M{"$pull": bson.M{"likes": uid}})
}

func (s *PostMongoStorage) modify(ctx context.Context, id string, update bson.M) (*model.Post, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, notFound("post", id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound("post", id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}
	return doc.toModel(), nil
}

func (s *PostMongoStorage) find(ctx context.Context, filter bson.M) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("could not decode posts: %w", err)
	}

	results := make([]*model.Post, 0, len(docs))
	for i := range docs {
		results = append(results, docs[i].toModel())
	}
	return results, nil
}

func (d *postDocument) toModel() *model.Post {
	likes := make([]string, 0, len(d.Likes))
	for _, uid := range d.Likes {
		likes = append(likes, uid.Hex())
	}
	return &model.Post{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Content:    d.Content,
		Category:   d.Category,
		AuthorID:   d.Author.Hex(),
		Likes:      likes,
		LikesCount: len(likes),
		CreatedAt:  d.CreatedAt,
	}
}
