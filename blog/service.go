// Package blog implements the post operations on top of a storage.Storage.
//
// Every operation loads the whole collection, works on it in memory and, when
// it mutates, writes the whole collection back. Nothing is cached between
// calls and nothing is locked: concurrent writers race and the last one wins.
package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"masterblog/storage"
	"masterblog/storage/models"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type Service struct {
	Storage storage.Storage
	Logger  *zap.Logger
	// Now supplies the default date of created posts.
	Now func() time.Time
}

func NewService(s storage.Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Storage: s, Logger: logger, Now: time.Now}
}

// PostInput holds the fields a client may send. Nil means "not supplied".
type PostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Date    *string `json:"date"`
}

func (s *Service) Create(ctx context.Context, in PostInput) (models.Post, error) {
	date := s.Now().Format(models.DateLayout)
	if in.Date != nil {
		date = *in.Date
	}
	if !models.ValidDate(date) {
		return models.Post{}, validationError("Invalid date format, must be YYYY-MM-DD")
	}

	var missing []string
	if in.Title == nil || *in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Content == nil || *in.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return models.Post{}, validationError("Missing field %s", strings.Join(missing, ", "))
	}

	posts, err := s.Storage.Read(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to read posts: %w", err)
	}
	post := models.Post{
		Id:      models.NextId(posts),
		Title:   *in.Title,
		Content: *in.Content,
		Date:    date,
	}
	if in.Author != nil {
		post.Author = *in.Author
	}
	posts = append(posts, post)
	if err := s.Storage.Write(ctx, posts); err != nil {
		return models.Post{}, fmt.Errorf("failed to write posts: %w", err)
	}
	s.Logger.Info("Post created", zap.Int("id", post.Id))
	return post, nil
}

func (s *Service) Update(ctx context.Context, id int, in PostInput) (models.Post, error) {
	posts, err := s.Storage.Read(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to read posts: %w", err)
	}
	idx := models.IndexOf(posts, id)
	if idx < 0 {
		return models.Post{}, notFoundError(id)
	}

	post := posts[idx]
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Author != nil {
		post.Author = *in.Author
	}
	if in.Date != nil {
		post.Date = *in.Date
	}
	// Stored dates are checked too, not only supplied ones.
	if !models.ValidDate(post.Date) {
		return models.Post{}, validationError("Invalid date format, must be YYYY-MM-DD")
	}

	posts[idx] = post
	if err := s.Storage.Write(ctx, posts); err != nil {
		return models.Post{}, fmt.Errorf("failed to write posts: %w", err)
	}
	s.Logger.Info("Post updated", zap.Int("id", id))
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id int) (string, error) {
	posts, err := s.Storage.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read posts: %w", err)
	}
	idx := models.IndexOf(posts, id)
	if idx < 0 {
		return "", notFoundError(id)
	}
	posts = append(posts[:idx], posts[idx+1:]...)
	if err := s.Storage.Write(ctx, posts); err != nil {
		return "", fmt.Errorf("failed to write posts: %w", err)
	}
	s.Logger.Info("Post deleted", zap.Int("id", id))
	return fmt.Sprintf("Post with id %d has been deleted successfully", id), nil
}
