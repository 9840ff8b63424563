package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormRepository implements Repository using GORM.
type gormRepository[T any] struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-backed repository for T.
func NewGormRepository[T any](db *gorm.DB) Repository[T] {
	return &gormRepository[T]{db: db}
}

func (r *gormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

func (r *gormRepository[T]) Get(ctx context.Context, id int64) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %d: %w", id, err)
	}
	return &record, nil
}

func (r *gormRepository[T]) Add(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// Edit writes every column of entity except created_at. A zero row count
// means the record is gone and is reported as ErrConflict.
func (r *gormRepository[T]) Edit(ctx context.Context, entity *T) error {
	result := r.db.WithContext(ctx).
		Model(entity).
		Select("*").
		Omit("created_at", clause.Associations).
		Updates(entity)
	if result.Error != nil {
		return fmt.Errorf("failed to update record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *gormRepository[T]) Remove(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
