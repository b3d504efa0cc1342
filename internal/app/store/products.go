package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"uminion/internal/app/market"
	"uminion/internal/pkg/randx"
)

// ProductRepository persists marketplace listings and their trash records.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs a ProductRepository on the shared pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id::text, name, price, image_key, store_type, store_id, owner_user_id::text, is_in_trash, created_at`

// scanProduct reads one product row in productColumns order.
func scanProduct(row interface{ Scan(dest ...any) error }) (market.Product, error) {
	var p market.Product
	var storeType string
	var storeID pgtype.Int4
	var ownerID pgtype.Text
	var createdAt time.Time

	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.ImageKey,
		&storeType, &storeID, &ownerID, &p.IsInTrash, &createdAt,
	)
	if err != nil {
		return market.Product{}, err
	}

	p.StoreType = market.StoreType(storeType)
	p.StoreID = int(storeID.Int32)
	p.OwnerID = ownerID.String
	p.CreatedAt = createdAt

	return p, nil
}

// partitionArgs translates a resolved partition into nullable column values.
func partitionArgs(partition market.Partition) (storeID, ownerID any) {
	switch partition.StoreType {
	case market.StoreTypeUser:
		return nil, partition.OwnerID
	default:
		return partition.StoreID, nil
	}
}

// Create inserts a listing into its resolved partition.
func (r *ProductRepository) Create(ctx context.Context, name string, price float64, imageKey string, partition market.Partition) (market.Product, error) {
	storeID, ownerID := partitionArgs(partition)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, price, image_key, store_type, store_id, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		randx.NewID(), name, price, imageKey, string(partition.StoreType), storeID, ownerID,
	)

	p, err := scanProduct(row)
	if err != nil {
		return market.Product{}, fmt.Errorf("create product: %w", err)
	}

	return p, nil
}

// GetByID fetches a listing, trashed or not.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (market.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if isNoRows(err) {
			return market.Product{}, ErrNotFound
		}
		return market.Product{}, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// ListByPartition returns the listings of one partition, newest first,
// filtered on the trash flag.
func (r *ProductRepository) ListByPartition(ctx context.Context, partition market.Partition, inTrash bool) ([]market.Product, error) {
	storeID, ownerID := partitionArgs(partition)

	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE store_type = $1
		  AND store_id IS NOT DISTINCT FROM $2
		  AND owner_user_id IS NOT DISTINCT FROM $3
		  AND is_in_trash = $4
		ORDER BY created_at DESC`,
		string(partition.StoreType), storeID, ownerID, inTrash,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// collectProducts drains a product result set.
func collectProducts(rows pgx.Rows) ([]market.Product, error) {
	var products []market.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// Update replaces the mutable listing fields and returns the updated row.
func (r *ProductRepository) Update(ctx context.Context, id, name string, price float64, imageKey string) (market.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products SET name = $2, price = $3, image_key = $4
		WHERE id = $1
		RETURNING `+productColumns,
		id, name, price, imageKey,
	)

	p, err := scanProduct(row)
	if err != nil {
		if isNoRows(err) {
			return market.Product{}, ErrNotFound
		}
		return market.Product{}, fmt.Errorf("update product: %w", err)
	}

	return p, nil
}

// MoveToTrash soft-deletes a listing: it sets the trash flag and records the
// trash entry in the same transaction. The row itself is never removed.
func (r *ProductRepository) MoveToTrash(ctx context.Context, productID, trashedBy string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin trash transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE products SET is_in_trash = TRUE WHERE id = $1 AND is_in_trash = FALSE`, productID)
	if err != nil {
		return fmt.Errorf("flag product as trashed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO product_trash (id, product_id, trashed_by)
		VALUES ($1, $2, $3)`,
		randx.NewID(), productID, trashedBy,
	)
	if err != nil {
		return fmt.Errorf("record trash entry: %w", err)
	}

	return tx.Commit(ctx)
}

// Restore clears the trash flag of a soft-deleted listing.
func (r *ProductRepository) Restore(ctx context.Context, productID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET is_in_trash = FALSE WHERE id = $1 AND is_in_trash = TRUE`, productID)
	if err != nil {
		return fmt.Errorf("restore product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
