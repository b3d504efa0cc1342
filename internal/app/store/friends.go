package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"uminion/internal/app/user"
)

// Friendship states as persisted in the friendships table.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// FriendRepository persists friend relationships. A relationship is stored as
// one directed row (requester -> addressee) whose status moves from pending to
// accepted.
type FriendRepository struct {
	pool *pgxpool.Pool
}

// NewFriendRepository constructs a FriendRepository on the shared pool.
func NewFriendRepository(pool *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{pool: pool}
}

// Request records a pending friend request.
func (r *FriendRepository) Request(ctx context.Context, requesterID, addresseeID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO friendships (requester_id, addressee_id, status)
		VALUES ($1, $2, $3)`,
		requesterID, addresseeID, FriendStatusPending,
	)
	if err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}
	return nil
}

// Accept promotes a pending request addressed to userID into a friendship.
func (r *FriendRepository) Accept(ctx context.Context, requesterID, addresseeID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE friendships SET status = $3
		WHERE requester_id = $1 AND addressee_id = $2 AND status = $4`,
		requesterID, addresseeID, FriendStatusAccepted, FriendStatusPending,
	)
	if err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes the relationship between two users in either direction,
// pending or accepted.
func (r *FriendRepository) Remove(ctx context.Context, userID, otherID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)`,
		userID, otherID,
	)
	if err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether any relationship row links the two users.
func (r *FriendRepository) Exists(ctx context.Context, userID, otherID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE (requester_id = $1 AND addressee_id = $2)
			   OR (requester_id = $2 AND addressee_id = $1)
		)`,
		userID, otherID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return exists, nil
}

// FriendEntry is one row of a friend or pending-request listing.
type FriendEntry struct {
	User      user.User `json:"user"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// listQuery selects the counterpart account for every relationship row
// touching userID with the given status.
const listQuery = `
	SELECT u.id::text, u.username, u.nickname, u.role, f.status, f.created_at
	FROM friendships f
	JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
	WHERE (f.requester_id = $1 OR f.addressee_id = $1) AND f.status = $2
	ORDER BY f.created_at DESC`

// ListAccepted returns the user's friends.
func (r *FriendRepository) ListAccepted(ctx context.Context, userID string) ([]FriendEntry, error) {
	return r.list(ctx, userID, FriendStatusAccepted)
}

// ListPending returns requests still awaiting an answer, in either direction.
func (r *FriendRepository) ListPending(ctx context.Context, userID string) ([]FriendEntry, error) {
	return r.list(ctx, userID, FriendStatusPending)
}

func (r *FriendRepository) list(ctx context.Context, userID, status string) ([]FriendEntry, error) {
	rows, err := r.pool.Query(ctx, listQuery, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	var entries []FriendEntry

	for rows.Next() {
		var entry FriendEntry
		var roleStr string

		if err := rows.Scan(
			&entry.User.ID, &entry.User.Username, &entry.User.Nickname,
			&roleStr, &entry.Status, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan friendship row: %w", err)
		}

		entry.User.Role = user.RoleFromString(roleStr)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friendship rows: %w", err)
	}

	return entries, nil
}
