package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ganot/accomplish/internal/repository"
)

// APIKeyRepository stores hashed API keys. Plain keys are never persisted.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create generates a fresh key, stores its hash and returns the plain key.
func (r *APIKeyRepository) Create(ctx context.Context, description string) (string, error) {
	key := "acc_" + uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO api_keys (key_hash, description, created_at) VALUES (?, ?, ?)`),
		HashToken(key), description, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create api key: %w", err)
	}
	return key, nil
}

// Resolve looks up a plain key and returns its description. Unknown keys
// yield repository.ErrNotFound.
func (r *APIKeyRepository) Resolve(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)

	var description string
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind(`SELECT description FROM api_keys WHERE key_hash = ?`), hash).Scan(&description)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`), time.Now().UTC(), hash)
	if err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return description, nil
}

// HashToken returns the hex SHA-256 of a key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
