package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"uminion/internal/app/market"
	"uminion/internal/pkg/randx"
)

// WantRepository persists per-user "looking for" want lists.
type WantRepository struct {
	pool *pgxpool.Pool
}

// NewWantRepository constructs a WantRepository on the shared pool.
func NewWantRepository(pool *pgxpool.Pool) *WantRepository {
	return &WantRepository{pool: pool}
}

// Create adds a want-list entry for the user.
func (r *WantRepository) Create(ctx context.Context, userID, name, description string) (market.WantedItem, error) {
	var item market.WantedItem

	err := r.pool.QueryRow(ctx, `
		INSERT INTO wanted_items (id, user_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, user_id::text, name, description, created_at`,
		randx.NewID(), userID, name, description,
	).Scan(&item.ID, &item.UserID, &item.Name, &item.Description, &item.CreatedAt)
	if err != nil {
		return market.WantedItem{}, fmt.Errorf("create want entry: %w", err)
	}

	return item, nil
}

// ListByUser returns the user's want list, newest first.
func (r *WantRepository) ListByUser(ctx context.Context, userID string) ([]market.WantedItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id::text, name, description, created_at
		FROM wanted_items
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list want entries: %w", err)
	}
	defer rows.Close()

	var items []market.WantedItem

	for rows.Next() {
		var item market.WantedItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Description, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan want row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate want rows: %w", err)
	}

	return items, nil
}

// Delete removes an entry, scoped to its owner.
func (r *WantRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM wanted_items WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete want entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
