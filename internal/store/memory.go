package store

import (
	"context"
	"sort"
	"sync"

	"hotel-booking-backend/internal/model"
)

// memoryRepository keeps records in a map. It is safe for concurrent use.
type memoryRepository[T any, PT interface {
	*T
	model.Entity
}] struct {
	mu      sync.RWMutex
	records map[int64]T
	nextID  int64
}

// NewMemoryRepository creates an in-memory repository for T.
func NewMemoryRepository[T any, PT interface {
	*T
	model.Entity
}]() Repository[T] {
	return &memoryRepository[T, PT]{
		records: make(map[int64]T),
		nextID:  1,
	}
}

func (r *memoryRepository[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]T, 0, len(ids))
	for _, id := range ids {
		records = append(records, r.records[id])
	}
	return records, nil
}

func (r *memoryRepository[T, PT]) Get(ctx context.Context, id int64) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (r *memoryRepository[T, PT]) Add(ctx context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := PT(entity).EntityID()
	if id == 0 {
		id = r.nextID
		PT(entity).SetEntityID(id)
	}
	if id >= r.nextID {
		r.nextID = id + 1
	}
	r.records[id] = *entity
	return nil
}

func (r *memoryRepository[T, PT]) Edit(ctx context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := PT(entity).EntityID()
	if _, ok := r.records[id]; !ok {
		return ErrConflict
	}
	r.records[id] = *entity
	return nil
}

func (r *memoryRepository[T, PT]) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}
	delete(r.records, id)
	return nil
}
