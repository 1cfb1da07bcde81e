package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"financas-api/internal/domain"
	"financas-api/internal/repository"
)

// dueDateLayout is the only accepted calendar-date format on the wire.
const dueDateLayout = "2006-01-02"

// CreateEntryInput carries the fields of a create request. Pointers mark
// presence so missing fields can be reported by name.
type CreateEntryInput struct {
	Description *string
	Amount      *decimal.Decimal
	DueDate     *string
	Kind        *string
	Status      *string
}

// UpdateEntryInput carries a partial update: only non-nil fields are applied.
type UpdateEntryInput struct {
	Description *string
	Amount      *decimal.Decimal
	DueDate     *string
	Kind        *string
	Status      *string
}

// EntryService wraps the entry store with per-owner authorization.
type EntryService interface {
	List(ctx context.Context, ownerID int64) ([]domain.Entry, error)
	Create(ctx context.Context, ownerID int64, input CreateEntryInput) (*domain.Entry, error)
	Update(ctx context.Context, ownerID, id int64, input UpdateEntryInput) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type entryService struct {
	entries repository.EntryRepository
}

func NewEntryService(entries repository.EntryRepository) EntryService {
	return &entryService{entries: entries}
}

func (s *entryService) List(ctx context.Context, ownerID int64) ([]domain.Entry, error) {
	return s.entries.ListByOwner(ctx, ownerID)
}

func (s *entryService) Create(ctx context.Context, ownerID int64, input CreateEntryInput) (*domain.Entry, error) {
	if input.Description == nil || *input.Description == "" {
		return nil, invalidInput("campo obrigatório: descricao")
	}
	if input.Amount == nil {
		return nil, invalidInput("campo obrigatório: valor")
	}
	if input.DueDate == nil || *input.DueDate == "" {
		return nil, invalidInput("campo obrigatório: data_vencimento")
	}
	if input.Kind == nil || *input.Kind == "" {
		return nil, invalidInput("campo obrigatório: tipo")
	}

	dueDate, err := time.Parse(dueDateLayout, *input.DueDate)
	if err != nil {
		return nil, invalidInput(fmt.Sprintf("data_vencimento inválida: %s", *input.DueDate))
	}

	kind := domain.EntryKind(*input.Kind)
	if !kind.Valid() {
		return nil, invalidInput(fmt.Sprintf("tipo inválido: %s", *input.Kind))
	}

	status := domain.EntryStatusPending
	if input.Status != nil && *input.Status != "" {
		status = domain.EntryStatus(*input.Status)
		if !status.Valid() {
			return nil, invalidInput(fmt.Sprintf("status inválido: %s", *input.Status))
		}
	}

	entry := &domain.Entry{
		Description: *input.Description,
		Amount:      *input.Amount,
		DueDate:     dueDate,
		Kind:        kind,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		OwnerID:     ownerID,
	}

	if _, err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *entryService) Update(ctx context.Context, ownerID, id int64, input UpdateEntryInput) error {
	entry, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if input.Description != nil {
		entry.Description = *input.Description
	}
	if input.Amount != nil {
		entry.Amount = *input.Amount
	}
	if input.DueDate != nil {
		dueDate, err := time.Parse(dueDateLayout, *input.DueDate)
		if err != nil {
			return invalidInput(fmt.Sprintf("data_vencimento inválida: %s", *input.DueDate))
		}
		entry.DueDate = dueDate
	}
	if input.Kind != nil {
		kind := domain.EntryKind(*input.Kind)
		if !kind.Valid() {
			return invalidInput(fmt.Sprintf("tipo inválido: %s", *input.Kind))
		}
		entry.Kind = kind
	}
	if input.Status != nil {
		status := domain.EntryStatus(*input.Status)
		if !status.Valid() {
			return invalidInput(fmt.Sprintf("status inválido: %s", *input.Status))
		}
		entry.Status = status
	}

	return s.entries.Update(ctx, entry)
}

func (s *entryService) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.entries.Delete(ctx, id)
}

// fetchOwned resolves the entry and enforces ownership. Existence is checked
// before ownership, so an absent id reads as NotFound and a foreign one as
// AccessDenied.
func (s *entryService) fetchOwned(ctx context.Context, ownerID, id int64) (*domain.Entry, error) {
	entry, err := s.entries.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if entry.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}
	return entry, nil
}
