package in_memory

import (
	"context"
	"masterblog/storage"
	"masterblog/storage/models"
	"sync"
)

// InMemoryStorage holds the collection in process memory. Contents are lost
// on restart.
type InMemoryStorage struct {
	mut   sync.RWMutex
	posts []models.Post
}

func (s *InMemoryStorage) Read(ctx context.Context) ([]models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return clone(s.posts), nil
}

func (s *InMemoryStorage) Write(ctx context.Context, posts []models.Post) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.posts = clone(posts)
	return nil
}

func clone(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}

func CreateInMemoryStorage(posts ...models.Post) storage.Storage {
	return &InMemoryStorage{
		posts: clone(posts),
	}
}
