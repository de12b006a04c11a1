package core

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vinotinto/certificados/internal/model"
	"github.com/vinotinto/certificados/internal/platform"
)

// APIKeyService manages the keys that authenticate admin API callers.
type APIKeyService struct {
	db DB
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(db DB) *APIKeyService {
	return &APIKeyService{db: db}
}

// Create generates a new API key, stores the hash, and returns the model
// along with the raw key string. The raw key must be shown to the caller
// exactly once.
func (s *APIKeyService) Create(ctx context.Context, name string) (*model.APIKey, string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, "", fmt.Errorf("generate api key: %w", err)
	}
	rawKey := "cert_" + hex.EncodeToString(rawBytes)

	key := &model.APIKey{
		ID:      platform.NewID(),
		Name:    name,
		KeyHash: HashKey(rawKey),
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO api_keys (id, name, key_hash, created_at) VALUES ($1, $2, $3, now())
		 RETURNING created_at`,
		key.ID, key.Name, key.KeyHash,
	).Scan(&key.CreatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("%w: insert api key: %w", ErrPersist, err)
	}
	return key, rawKey, nil
}

// ValidateKey returns the API key record matching a raw key, or ErrNotFound
// when no active key matches.
func (s *APIKeyService) ValidateKey(ctx context.Context, rawKey string) (*model.APIKey, error) {
	var k model.APIKey
	err := s.db.QueryRow(ctx,
		`SELECT id, name, key_hash, created_at, revoked_at FROM api_keys
		 WHERE key_hash = $1 AND revoked_at IS NULL`,
		HashKey(rawKey),
	).Scan(&k.ID, &k.Name, &k.KeyHash, &k.CreatedAt, &k.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("validate api key: %w", err)
	}
	return &k, nil
}

// List returns all API keys, active and revoked.
func (s *APIKeyService) List(ctx context.Context) ([]model.APIKey, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, key_hash, created_at, revoked_at FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		var k model.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.CreatedAt, &k.RevokedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Revoke marks a key unusable. Revoking an already revoked key is a no-op.
func (s *APIKeyService) Revoke(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE api_keys SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%w: revoke api key %s: %w", ErrPersist, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("api key %s: %w", id, ErrNotFound)
	}
	return nil
}

// HashKey returns the hex SHA-256 digest stored for a raw API key.
func HashKey(rawKey string) string {
	hash := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(hash[:])
}
