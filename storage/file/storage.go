package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"masterblog/storage"
	"masterblog/storage/models"
)

// FileStorage keeps the collection as one indented JSON array in a single file.
type FileStorage struct {
	path   string
	logger *zap.Logger
}

func (s *FileStorage) Read(ctx context.Context) ([]models.Post, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %s: %w", s.path, err.Error(), storage.InternalError)
	}

	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		s.logger.Warn("Posts file is malformed, treating it as empty",
			zap.String("path", s.path), zap.Error(err))
		return []models.Post{}, nil
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *FileStorage) Write(ctx context.Context, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	raw, err := json.MarshalIndent(posts, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode posts: %s: %w", err.Error(), storage.InternalError)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %s: %w", s.path, err.Error(), storage.InternalError)
	}
	return nil
}

func CreateFileStorage(path string, logger *zap.Logger) *FileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStorage{path: path, logger: logger}
}
