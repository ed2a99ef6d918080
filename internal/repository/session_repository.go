package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists/validates refresh tokens for supplier sessions
// (single 'token_hash' column).
type SessionRepo struct{ db *sql.DB }

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// StoreRefresh inserts a refresh token hash row for the supplier.
func (r *SessionRepo) StoreRefresh(ctx context.Context, supplierID, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (supplier_id, token_hash, expires_at) VALUES (?,?,?)",
		supplierID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the supplier ID if a non-revoked, non-expired
// session with the given token hash exists; otherwise sql.ErrNoRows.
func (r *SessionRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var (
		supplierID string
		expiresAt  time.Time
		revokedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT supplier_id, expires_at, revoked_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&supplierID, &expiresAt, &revokedAt)
	if err != nil {
		return "", err
	}
	if revokedAt.Valid {
		return "", sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return "", sql.ErrNoRows
	}
	return supplierID, nil
}

// RevokeByHash marks a session as revoked.
func (r *SessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForSupplier revokes all of a supplier's active sessions.
func (r *SessionRepo) RevokeAllForSupplier(ctx context.Context, supplierID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=UTC_TIMESTAMP() WHERE supplier_id=? AND revoked_at IS NULL",
		supplierID)
	return err
}
