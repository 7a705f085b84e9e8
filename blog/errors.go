package blog

import (
	"fmt"
	"masterblog/storage"
)

// Error carries a message meant for the API client together with the storage
// sentinel that classifies it.
type Error struct {
	Message string
	Kind    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Kind.Error())
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...), Kind: storage.ValidationError}
}

func notFoundError(id int) error {
	return &Error{Message: fmt.Sprintf("Post with id %d not found", id), Kind: storage.NotFoundError}
}
