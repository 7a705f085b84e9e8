package persistent_cached

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"masterblog/storage"
	"masterblog/storage/models"
)

const (
	CacheKey      = "masterblog:posts"
	GenerationKey = "masterblog:posts:gen"
)

var errStaleGeneration = errors.New("posts changed while reading")

// cacheGeneration returns the number of writes seen so far. A missing key is
// generation zero.
func cacheGeneration(ctx context.Context, c interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}) (int64, error) {
	gen, err := c.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// saveToCache stores posts only if no write has completed since gen was
// observed. Writes bump the generation after persisting.
func saveToCache(ctx context.Context, s *PersistentStorageWithCache, gen int64, posts []models.Post) {
	j, err := json.Marshal(posts)
	if err != nil {
		s.logger.Warn("Failed to encode posts for redis", zap.Error(err))
		return
	}
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := cacheGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, CacheKey, j, s.ttl)
			return nil
		})
		return err
	}, GenerationKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		s.logger.Debug("Skipped caching posts read before a write")
	default:
		s.logger.Warn("Failed to save posts to redis", zap.Error(err))
	}
}

func getFromCache(ctx context.Context, s *PersistentStorageWithCache) ([]models.Post, bool) {
	val, err := s.client.Get(ctx, CacheKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Failed to get posts from redis", zap.Error(err))
		}
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal([]byte(val), &posts); err != nil {
		s.logger.Warn("Cached posts are malformed", zap.Error(err))
		return nil, false
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, true
}

func removeFromCache(ctx context.Context, s *PersistentStorageWithCache) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, CacheKey)
		return nil
	})
	if err != nil {
		s.logger.Warn("Failed to remove posts from redis", zap.Error(err))
	}
}

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(redisUrl string) (*redis.Client, error) {
	if strings.Contains(redisUrl, "://") {
		opts, err := redis.ParseURL(redisUrl)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisUrl}), nil
}

func CreatePersistentStorageCachedWithRedis(
	persistentStorage storage.Storage, client *redis.Client, ttl time.Duration, logger *zap.Logger) *PersistentStorageWithCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistentStorageWithCache{
		client:            client,
		persistentStorage: persistentStorage,
		ttl:               ttl,
		logger:            logger,
	}
}

// PersistentStorageWithCache keeps a copy of the whole collection in redis.
// Redis failures are logged and fall through to the persistent storage.
type PersistentStorageWithCache struct {
	client            *redis.Client
	persistentStorage storage.Storage
	ttl               time.Duration
	logger            *zap.Logger
}

func (s *PersistentStorageWithCache) Read(ctx context.Context) ([]models.Post, error) {
	if posts, ok := getFromCache(ctx, s); ok {
		return posts, nil
	}
	gen, genErr := cacheGeneration(ctx, s.client)
	if genErr != nil {
		s.logger.Warn("Failed to get posts generation from redis", zap.Error(genErr))
	}
	posts, err := s.persistentStorage.Read(ctx)
	if err == nil && genErr == nil {
		saveToCache(ctx, s, gen, posts)
	}
	return posts, err
}

// Write bumps the generation and drops the cached copy once the collection
// is persisted.
func (s *PersistentStorageWithCache) Write(ctx context.Context, posts []models.Post) error {
	err := s.persistentStorage.Write(ctx, posts)
	removeFromCache(ctx, s)
	return err
}

func (s *PersistentStorageWithCache) Close() error {
	return s.client.Close()
}
