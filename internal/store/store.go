package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an edit matched no stored row, for
	// example because the record was deleted concurrently.
	ErrConflict = errors.New("concurrent update conflict")
)

// Repository is the CRUD contract shared by every entity type.
type Repository[T any] interface {
	// GetAll returns every record ordered by ascending id.
	GetAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	// Add stores a new record and writes the assigned id back into entity.
	Add(ctx context.Context, entity *T) error
	Edit(ctx context.Context, entity *T) error
	Remove(ctx context.Context, id int64) error
}
