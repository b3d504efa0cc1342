/*
Package store contains the PostgreSQL repositories backing the platform's
persisted state: accounts, chat messages, products, friendships, carts, and
want lists.

Each repository wraps the shared pgx connection pool; rooms are a natural
partition key for messages and no cross-room transaction is ever required.
*/
package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

// isNoRows maps pgx's sentinel onto the package's not-found error.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
