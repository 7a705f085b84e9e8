package persistent

import (
	"context"
	"fmt"
	"masterblog/storage"
	"masterblog/storage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Post is the stored shape of models.Post. Seq keeps the collection order,
// which is not the same as id order once posts have been deleted and added.
type Post struct {
	Id      int    `bson:"_id"`
	Seq     int    `bson:"seq"`
	Title   string `bson:"title"`
	Content string `bson:"content"`
	Author  string `bson:"author"`
	Date    string `bson:"date"`
}

func fromModel(p models.Post, seq int) Post {
	return Post{
		Id:      p.Id,
		Seq:     seq,
		Title:   p.Title,
		Content: p.Content,
		Author:  p.Author,
		Date:    p.Date,
	}
}

func (p *Post) toModel() models.Post {
	return models.Post{
		Id:      p.Id,
		Title:   p.Title,
		Content: p.Content,
		Author:  p.Author,
		Date:    p.Date,
	}
}

type MongoStorage struct {
	client *mongo.Client
	posts  *mongo.Collection
	logger *zap.Logger
}

func (s *MongoStorage) Read(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %s: %w", err.Error(), storage.InternalError)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			s.logger.Warn("Cursor closing failed", zap.Error(err))
		}
	}(cursor, ctx)

	posts := make([]models.Post, 0)
	for cursor.Next(ctx) {
		var doc Post
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Warn("Posts collection is malformed, treating it as empty", zap.Error(err))
			return []models.Post{}, nil
		}
		posts = append(posts, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %s: %w", err.Error(), storage.InternalError)
	}
	return posts, nil
}

// Write replaces the whole collection. It is not transactional: a failure
// between the delete and the insert leaves the collection empty.
func (s *MongoStorage) Write(ctx context.Context, posts []models.Post) error {
	if _, err := s.posts.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear posts: %s: %w", err.Error(), storage.InternalError)
	}
	if len(posts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(posts))
	for i, p := range posts {
		docs = append(docs, fromModel(p, i))
	}
	if _, err := s.posts.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert posts: %s: %w", err.Error(), storage.InternalError)
	}
	return nil
}

func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func CreateMongoStorage(ctx context.Context, dbUrl, dbName string, logger *zap.Logger) (*MongoStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	posts := client.Database(dbName).Collection("posts")
	if err := ensurePostsIndexes(ctx, posts); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStorage{
		client: client,
		posts:  posts,
		logger: logger,
	}, nil
}
