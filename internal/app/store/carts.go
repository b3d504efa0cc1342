package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"uminion/internal/app/market"
)

// CartRepository persists per-user shopping carts.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository constructs a CartRepository on the shared pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Add puts a product in the user's cart, bumping the quantity when it is
// already there.
func (r *CartRepository) Add(ctx context.Context, userID, productID string, quantity int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// Remove drops a product from the user's cart.
func (r *CartRepository) Remove(ctx context.Context, userID, productID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's cart joined with the listings, skipping products
// that have since been trashed.
func (r *CartRepository) List(ctx context.Context, userID string) ([]market.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id::text, p.name, p.price, p.image_key, p.store_type, p.store_id, p.owner_user_id::text, p.is_in_trash, p.created_at,
		       c.quantity, c.added_at
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1 AND p.is_in_trash = FALSE
		ORDER BY c.added_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var items []market.CartItem

	for rows.Next() {
		var item market.CartItem
		var storeType string
		var storeID pgtype.Int4
		var ownerID pgtype.Text

		if err := rows.Scan(
			&item.Product.ID, &item.Product.Name, &item.Product.Price, &item.Product.ImageKey,
			&storeType, &storeID, &ownerID, &item.Product.IsInTrash, &item.Product.CreatedAt,
			&item.Quantity, &item.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}

		item.Product.StoreType = market.StoreType(storeType)
		item.Product.StoreID = int(storeID.Int32)
		item.Product.OwnerID = ownerID.String

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}

	return items, nil
}
