package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/authgate/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

const tokenColumns = `id, identifier, token, expires_at, consumed_at, created_at`

type TokenRepository interface {
	Issue(ctx context.Context, token *model.VerificationToken) error
	ByToken(ctx context.Context, token string) (*model.VerificationToken, error)
	ByIdentifier(ctx context.Context, identifier string) (*model.VerificationToken, error)
	Consume(ctx context.Context, identifier string, at time.Time) error
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Issue stores a fresh token for the identifier, replacing whatever token the
// identifier had before in the same statement. Concurrent issuers for one
// identifier always leave exactly one row behind.
func (r *tokenRepository) Issue(ctx context.Context, token *model.VerificationToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO verification_tokens (id, identifier, token, expires_at, consumed_at, created_at)
		VALUES ($1, $2, $3, $4, NULL, $5)
		ON CONFLICT (identifier) DO UPDATE SET
			token = excluded.token,
			expires_at = excluded.expires_at,
			consumed_at = NULL,
			created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.Identifier,
		token.Token,
		token.ExpiresAt.UTC(),
		token.CreatedAt.UTC(),
	)
	return err
}

// ByToken returns the row for a token value, consumed or not.
func (r *tokenRepository) ByToken(ctx context.Context, token string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens WHERE token = $1`

	err := r.db.GetContext(ctx, &t, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ByIdentifier returns the unconsumed token for an identifier.
func (r *tokenRepository) ByIdentifier(ctx context.Context, identifier string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens WHERE identifier = $1 AND consumed_at IS NULL`

	err := r.db.GetContext(ctx, &t, query, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// Consume retires the identifier's token. The row is kept with consumed_at
// set so a replayed link can still be recognised. Absence is not an error.
func (r *tokenRepository) Consume(ctx context.Context, identifier string, at time.Time) error {
	query := `UPDATE verification_tokens SET consumed_at = $1 WHERE identifier = $2 AND consumed_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, at.UTC(), identifier)
	return err
}

// CleanupExpired removes consumed and expired tokens older than the given duration.
//
// Tokens are not deleted when they expire or are consumed; the verification
// endpoint leaves them in place. Operators prune them with `do tokens prune`.
func (r *tokenRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	query := `
		DELETE FROM verification_tokens
		WHERE (consumed_at IS NOT NULL AND consumed_at < $1)
		   OR (expires_at < $1)
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}
