package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/database"
	"relaychat/internal/repository"
)

func setupRepository(t *testing.T) (repository.EmbeddingCache, *sql.DB, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	return repository.NewSQLiteRepository(db), db, mockDB
}

func TestSQLiteRepository_GetEmbedding(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, db, mockDB := setupRepository(t)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"dimensions", "vector"}).AddRow(3, "[0.1,0.2,0.3]")
		mockDB.ExpectQuery("SELECT dimensions, vector FROM embeddings").
			WithArgs("nomic-embed-text", repository.ContentHash("hello")).
			WillReturnRows(rows)

		vec, err := repo.GetEmbedding(ctx, "nomic-embed-text", "hello")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Miss returns ErrNotFound", func(t *testing.T) {
		repo, db, mockDB := setupRepository(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectQuery("SELECT dimensions, vector FROM embeddings").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetEmbedding(ctx, "m", "hello")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Dimension mismatch is an error", func(t *testing.T) {
		repo, db, mockDB := setupRepository(t)
		defer func() { _ = db.Close() }()

		rows := sqlmock.NewRows([]string{"dimensions", "vector"}).AddRow(4, "[0.1,0.2]")
		mockDB.ExpectQuery("SELECT dimensions, vector FROM embeddings").WillReturnRows(rows)

		_, err := repo.GetEmbedding(ctx, "m", "hello")
		require.Error(t, err)
		assert.False(t, errors.Is(err, repository.ErrNotFound))
	})
}

func TestSQLiteRepository_PutEmbedding(t *testing.T) {
	repo, db, mockDB := setupRepository(t)
	defer func() { _ = db.Close() }()

	mockDB.ExpectExec("INSERT INTO embeddings").
		WithArgs("m", repository.ContentHash("hello"), 2, "[1,2]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.PutEmbedding(context.Background(), "m", "hello", []float32{1, 2})
	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

// TestSQLiteRepository_RoundTrip runs against a real in-memory database with
// migrations applied.
func TestSQLiteRepository_RoundTrip(t *testing.T) {
	db, err := database.InitDB(database.InMemory)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := repository.NewSQLiteRepository(db)
	ctx := context.Background()

	_, err = repo.GetEmbedding(ctx, "m", "text")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.PutEmbedding(ctx, "m", "text", []float32{0.5, -0.25}))
	require.NoError(t, repo.PutEmbedding(ctx, "m", "text", []float32{0.75, 1}))

	vec, err := repo.GetEmbedding(ctx, "m", "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.75, 1}, vec)

	_, err = repo.GetEmbedding(ctx, "other-model", "text")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
