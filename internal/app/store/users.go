package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"uminion/internal/app/user"
)

// UserRecord is a persisted account together with its credential hash.
type UserRecord struct {
	user.User
	PasswordHash string
}

// CreateUserParams carries the fields required to create an account.
type CreateUserParams struct {
	ID           string
	Username     string
	PasswordHash string
	Nickname     string
	Role         user.Role
}

// UserRepository persists platform accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository on the shared pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id::text, username, nickname, avatar_key, role, is_blocked, banned_from_chatrooms, created_at, password_hash`

// scanUserRecord reads one user row in userColumns order.
func scanUserRecord(row interface{ Scan(dest ...any) error }) (UserRecord, error) {
	var rec UserRecord
	var roleStr string
	var createdAt time.Time

	err := row.Scan(
		&rec.ID, &rec.Username, &rec.Nickname, &rec.AvatarKey,
		&roleStr, &rec.Blocked, &rec.BannedFromChat, &createdAt, &rec.PasswordHash,
	)
	if err != nil {
		return UserRecord{}, err
	}

	rec.Role = user.RoleFromString(roleStr)
	rec.CreatedAt = createdAt

	return rec, nil
}

// Create inserts a new account and returns its persisted form.
func (r *UserRepository) Create(ctx context.Context, params CreateUserParams) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, nickname, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		params.ID, params.Username, params.PasswordHash, params.Nickname, params.Role.String(),
	)

	rec, err := scanUserRecord(row)
	if err != nil {
		return user.User{}, fmt.Errorf("create user %s: %w", params.Username, err)
	}

	return rec.User, nil
}

// GetByID fetches an account by UUID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (UserRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	rec, err := scanUserRecord(row)
	if err != nil {
		if isNoRows(err) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return rec, nil
}

// GetByUsername fetches an account by its unique login name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (UserRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	rec, err := scanUserRecord(row)
	if err != nil {
		if isNoRows(err) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by username: %w", err)
	}

	return rec, nil
}

// UpdatePassword replaces the account's credential hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile sets the account's nickname and avatar key and returns the
// updated account.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, nickname, avatarKey string) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET nickname = $2, avatar_key = $3
		WHERE id = $1
		RETURNING `+userColumns,
		id, nickname, avatarKey,
	)

	rec, err := scanUserRecord(row)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, fmt.Errorf("update profile: %w", err)
	}

	return rec.User, nil
}
