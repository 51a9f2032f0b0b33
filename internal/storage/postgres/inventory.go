package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/stacks/internal/stash"
)

// InventoryRepository persists stash contents. It implements stash.Repository.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates an InventoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Save replaces the stored stash for owner in a single transaction.
//
// Precondition: owner is non-empty; s.Size >= 0; every record index < s.Size.
// Postcondition: Load(owner) returns s, or the previous contents on error.
func (r *InventoryRepository) Save(ctx context.Context, owner string, s stash.Saved) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning inventory save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventories (owner, size) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET size = EXCLUDED.size, updated_at = NOW()`,
		owner, s.Size,
	); err != nil {
		return fmt.Errorf("upserting inventory: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM inventory_slots WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("clearing inventory slots: %w", err)
	}

	if len(s.Slots) > 0 {
		rows := make([][]any, 0, len(s.Slots))
		for _, rec := range s.Slots {
			rows = append(rows, []any{owner, rec.Index, rec.ItemID, rec.Quantity})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"inventory_slots"},
			[]string{"owner", "slot_index", "item_id", "quantity"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("inserting inventory slots: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing inventory save: %w", err)
	}
	return nil
}

// Load returns the stored stash for owner with slots in index order.
//
// Postcondition: returns stash.ErrNotSaved if owner has never been saved.
func (r *InventoryRepository) Load(ctx context.Context, owner string) (stash.Saved, error) {
	var out stash.Saved
	err := r.db.QueryRow(ctx, `SELECT size FROM inventories WHERE owner = $1`, owner).Scan(&out.Size)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stash.Saved{}, stash.ErrNotSaved
		}
		return stash.Saved{}, fmt.Errorf("querying inventory: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT slot_index, item_id, quantity
		FROM inventory_slots WHERE owner = $1 ORDER BY slot_index ASC`,
		owner,
	)
	if err != nil {
		return stash.Saved{}, fmt.Errorf("listing inventory slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec stash.Record
		if err := rows.Scan(&rec.Index, &rec.ItemID, &rec.Quantity); err != nil {
			return stash.Saved{}, fmt.Errorf("scanning inventory slot row: %w", err)
		}
		out.Slots = append(out.Slots, rec)
	}
	return out, rows.Err()
}

// Delete removes everything stored for owner.
//
// Postcondition: returns stash.ErrNotSaved if nothing was stored.
func (r *InventoryRepository) Delete(ctx context.Context, owner string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventories WHERE owner = $1`, owner)
	if err != nil {
		return fmt.Errorf("deleting inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return stash.ErrNotSaved
	}
	return nil
}
