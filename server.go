package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"masterblog/api"
	"masterblog/blog"
	"masterblog/handlers"
	"masterblog/storage"
	"masterblog/storage/file"
	"masterblog/storage/in_memory"
	"masterblog/storage/persistent"
	"masterblog/storage/persistent_cached"
	"masterblog/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func CreateStorage(ctx context.Context, cfg utils.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	noop := func() {}
	switch cfg.StorageMode {
	case utils.File:
		logger.Info("Using file storage", zap.String("path", cfg.PostsFile))
		return file.CreateFileStorage(cfg.PostsFile, logger), noop, nil
	case utils.InMemory:
		logger.Info("Using in-memory storage")
		return in_memory.CreateInMemoryStorage(), noop, nil
	case utils.Mongo:
		return createMongoStorage(ctx, cfg, logger)
	case utils.MongoWithCache:
		persistentStorage, closePersistent, err := CreateStorage(ctx, utils.Config{
			StorageMode: cfg.CacheBackend,
			PostsFile:   cfg.PostsFile,
			MongoUrl:    cfg.MongoUrl,
			MongoDbName: cfg.MongoDbName,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		client, err := persistent_cached.NewRedisClient(cfg.RedisUrl)
		if err != nil {
			closePersistent()
			return nil, nil, fmt.Errorf("invalid 'REDIS_URL': %w", err)
		}
		logger.Info("Caching posts in redis", zap.Duration("ttl", cfg.CacheTTL))
		cached := persistent_cached.CreatePersistentStorageCachedWithRedis(persistentStorage, client, cfg.CacheTTL, logger)
		return cached, func() {
			if err := cached.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
			closePersistent()
		}, nil
	}
	return nil, nil, fmt.Errorf("invalid 'STORAGE_MODE': %q", cfg.StorageMode)
}

func createMongoStorage(ctx context.Context, cfg utils.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	mongoStorage, err := persistent.CreateMongoStorage(connectCtx, cfg.MongoUrl, cfg.MongoDbName, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using mongo storage", zap.String("db", cfg.MongoDbName))
	return mongoStorage, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoStorage.Close(closeCtx); err != nil {
			logger.Warn("Failed to disconnect from mongo", zap.Error(err))
		}
	}, nil
}

// NewRouter wires the API routes, the documentation and the CORS policy.
func NewRouter(s storage.Storage, logger *zap.Logger) (http.Handler, error) {
	doc, err := api.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load api spec: %w", err)
	}
	docs, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to dump api spec to json: %w", err)
	}

	handler := &handlers.HTTPHandler{
		Blog:   blog.NewService(s, logger),
		Logger: logger,
		Docs:   docs,
	}

	r := mux.NewRouter()
	r.HandleFunc("/maintenance/ping", handler.HealthCheck).Methods("GET")
	r.HandleFunc("/api/posts", handler.HandleGetPosts).Methods("GET")
	r.HandleFunc("/api/posts", handler.HandleCreatePost).Methods("POST")
	r.HandleFunc("/api/posts/search", handler.HandleSearchPosts).Methods("GET")
	r.HandleFunc("/api/posts/{postId:[0-9]+}", handler.HandleUpdatePost).Methods("PUT")
	r.HandleFunc("/api/posts/{postId:[0-9]+}", handler.HandleDeletePost).Methods("DELETE")
	r.HandleFunc(handlers.SPEC_URL, handler.HandleSpec).Methods("GET")
	r.HandleFunc(handlers.DOCS_URL, handler.HandleDocs).Methods("GET")

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.RequestLogger(logger)(cors(r)), nil
}

func CreateServer(cfg utils.Config, s storage.Storage, logger *zap.Logger) (*http.Server, error) {
	router, err := NewRouter(s, logger)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Handler:      router,
		Addr:         "0.0.0.0:" + cfg.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}, nil
}

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid 'LOG_LEVEL': %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, closeStorage, err := CreateStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create storage", zap.Error(err))
	}
	defer closeStorage()

	srv, err := CreateServer(cfg, s, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Start serving", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
