package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type StorageMode string

const (
	File           StorageMode = "file"
	InMemory       StorageMode = "inmemory"
	Mongo          StorageMode = "mongo"
	MongoWithCache StorageMode = "cached"
)

type Config struct {
	Port         string        `env:"SERVER_PORT" envDefault:"5002"`
	StorageMode  StorageMode   `env:"STORAGE_MODE" envDefault:"file"`
	PostsFile    string        `env:"POSTS_FILE" envDefault:"posts.json"`
	MongoUrl     string        `env:"MONGO_URL"`
	MongoDbName  string        `env:"MONGO_DBNAME"`
	RedisUrl     string        `env:"REDIS_URL"`
	CacheBackend StorageMode   `env:"CACHE_BACKEND" envDefault:"file"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageMode {
	case File, InMemory:
		return nil
	case Mongo:
		return c.requireMongo()
	case MongoWithCache:
		if c.RedisUrl == "" {
			return fmt.Errorf("'REDIS_URL' was not specified for 'cached' STORAGE_MODE")
		}
		switch c.CacheBackend {
		case File:
			return nil
		case Mongo:
			return c.requireMongo()
		}
		return fmt.Errorf("invalid 'CACHE_BACKEND': %q", c.CacheBackend)
	}
	return fmt.Errorf("invalid 'STORAGE_MODE': %q", c.StorageMode)
}

func (c Config) requireMongo() error {
	if c.MongoUrl == "" {
		return fmt.Errorf("'MONGO_URL' not specified")
	}
	if c.MongoDbName == "" {
		return fmt.Errorf("'MONGO_DBNAME' not specified")
	}
	return nil
}
