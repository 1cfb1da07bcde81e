package repository

import (
	"context"

	"financas-api/internal/domain"
)

// EntryRepository exposes persistence operations for Entry rows.
type EntryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, entry *domain.Entry) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Entry, error)
	// ListByOwner returns the owner's entries in creation order (id ascending).
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Entry, error)
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, id int64) error
}
