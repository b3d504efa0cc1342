package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"uminion/internal/app/chat"
)

// MessageRepository is the durable, append-only, room-partitioned message log.
// It implements chat.MessageStore.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository constructs a MessageRepository on the shared pool.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Append durably stores one message. Messages are immutable after this point.
func (r *MessageRepository) Append(ctx context.Context, msg chat.Message) error {
	var senderID any
	if msg.SenderUserID != "" {
		senderID = msg.SenderUserID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO messages (id, room, content, sender_user_id, sender_name, is_anonymous, anonymous_handle, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		msg.ID, msg.Room, msg.Content, senderID, msg.SenderName, msg.IsAnonymous, msg.AnonymousHandle, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append message to room %s: %w", msg.Room, err)
	}

	return nil
}

// RecentHistory returns up to limit messages for the room, oldest-first.
// The cap selects the most recent messages; anything older is unreachable
// through the chat interface.
func (r *MessageRepository) RecentHistory(ctx context.Context, room string, limit int) ([]chat.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, room, content, sender_user_id::text, sender_name, is_anonymous, anonymous_handle, created_at
		FROM (
			SELECT * FROM messages
			WHERE room = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`,
		room, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load history for room %s: %w", room, err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0, limit)

	for rows.Next() {
		var msg chat.Message
		var senderID pgtype.Text

		if err := rows.Scan(
			&msg.ID, &msg.Room, &msg.Content, &senderID,
			&msg.SenderName, &msg.IsAnonymous, &msg.AnonymousHandle, &msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}

		msg.SenderUserID = senderID.String
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return messages, nil
}

var _ chat.MessageStore = (*MessageRepository)(nil)
