package storage

import (
	"context"
	"errors"
	"fmt"
	"masterblog/storage/models"
)

var (
	InternalError   = errors.New("storage internal error")
	ClientError     = errors.New("storage client error")
	ValidationError = fmt.Errorf("%w.validation", ClientError)
	NotFoundError   = fmt.Errorf("%w.not_found", ClientError)
)

// Storage reads and writes the whole post collection at once.
//
// Read never fails on a missing or malformed collection: it returns an empty
// one instead. Write replaces everything previously stored.
type Storage interface {
	Read(ctx context.Context) ([]models.Post, error)
	Write(ctx context.Context, posts []models.Post) error
}
