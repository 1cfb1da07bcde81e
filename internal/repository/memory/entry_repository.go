package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"financas-api/internal/domain"
	"financas-api/internal/repository"
)

type EntryRepository struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]domain.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{nextID: 1, entries: make(map[int64]domain.Entry)}
}

func (r *EntryRepository) Init(ctx context.Context) error { return nil }

func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.entries[entry.ID] = *entry
	return entry.ID, nil
}

func (r *EntryRepository) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := e
	return &copied, nil
}

func (r *EntryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []domain.Entry
	for _, e := range r.entries {
		if e.OwnerID == ownerID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}
