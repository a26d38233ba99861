package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wakala/fraudguard/internal/domain"
)

// BlacklistRepo is the SQL-backed BlacklistStore. Re-adding an account writes
// another row; Contains only asks whether any row exists.
type BlacklistRepo struct {
	db *DB
}

func NewBlacklistRepo(db *DB) *BlacklistRepo {
	return &BlacklistRepo{db: db}
}

func (r *BlacklistRepo) Add(ctx context.Context, e domain.BlacklistEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Type == "" {
		e.Type = domain.BlacklistTypeAccount
	}
	reason, err := encodeReasons(e.Reason)
	if err != nil {
		return fmt.Errorf("encode reason: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO blacklist (id, type, value, reason, created_at) VALUES (?,?,?,?,?)`),
		e.ID, e.Type, e.Value, reason, formatTime(e.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert blacklist entry: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *BlacklistRepo) Contains(ctx context.Context, accountID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		"SELECT COUNT(*) FROM blacklist WHERE type = ? AND value = ?"),
		domain.BlacklistTypeAccount, accountID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w: %w", ErrStoreUnavailable, err)
	}
	return count > 0, nil
}
