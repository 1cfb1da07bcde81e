package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"financas-api/internal/domain"
	"financas-api/internal/repository"
)

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	amount TEXT NOT NULL,
	due_date DATE NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pendente',
	created_at DATETIME NOT NULL,
	owner_id INTEGER NOT NULL REFERENCES users(id)
);
`

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEntriesTable); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}
	return nil
}

func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO entries (description, amount, due_date, kind, status, created_at, owner_id)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Description,
		entry.Amount.String(),
		entry.DueDate.UTC(),
		string(entry.Kind),
		string(entry.Status),
		entry.CreatedAt,
		entry.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry last insert id: %w", err)
	}
	entry.ID = id
	return id, nil
}

func (r *EntryRepository) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, description, amount, due_date, kind, status, created_at, owner_id
FROM entries
WHERE id = ?`,
		id,
	)
	return scanEntry(row)
}

func (r *EntryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, description, amount, due_date, kind, status, created_at, owner_id
FROM entries
WHERE owner_id = ?
ORDER BY id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE entries
SET description=?, amount=?, due_date=?, kind=?, status=?
WHERE id=?`,
		entry.Description,
		entry.Amount.String(),
		entry.DueDate.UTC(),
		string(entry.Kind),
		string(entry.Status),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("entry update rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("entry delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanEntry(scanner interface {
	Scan(dest ...any) error
}) (*domain.Entry, error) {
	var (
		entry  domain.Entry
		amount string
		kind   string
		status string
	)

	if err := scanner.Scan(
		&entry.ID,
		&entry.Description,
		&amount,
		&entry.DueDate,
		&kind,
		&status,
		&entry.CreatedAt,
		&entry.OwnerID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse entry amount: %w", err)
	}

	entry.Amount = value
	entry.Kind = domain.EntryKind(kind)
	entry.Status = domain.EntryStatus(status)
	return &entry, nil
}
