package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns an EmbeddingCache backed by the embeddings table.
func NewSQLiteRepository(db *sql.DB) EmbeddingCache {
	return &sqliteRepository{db: db}
}

// ContentHash is the cache key for a piece of embedded text.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (r *sqliteRepository) GetEmbedding(ctx context.Context, model, content string) ([]float32, error) {
	query := "SELECT dimensions, vector FROM embeddings WHERE model = ? AND content_hash = ?"
	row := r.db.QueryRowContext(ctx, query, model, ContentHash(content))

	var dimensions int
	var raw string
	if err := row.Scan(&dimensions, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not query embedding: %w", err)
	}

	var vector []float32
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		return nil, fmt.Errorf("could not decode stored embedding: %w", err)
	}
	if len(vector) != dimensions {
		return nil, fmt.Errorf("stored embedding has %d dimensions, expected %d", len(vector), dimensions)
	}
	return vector, nil
}

func (r *sqliteRepository) PutEmbedding(ctx context.Context, model, content string, vector []float32) error {
	raw, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("could not encode embedding: %w", err)
	}
	query := `INSERT INTO embeddings (model, content_hash, dimensions, vector, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(model, content_hash) DO UPDATE SET dimensions = excluded.dimensions, vector = excluded.vector`
	_, err = r.db.ExecContext(ctx, query, model, ContentHash(content), len(vector), string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("could not store embedding: %w", err)
	}
	return nil
}
