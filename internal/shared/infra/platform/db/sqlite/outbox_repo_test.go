package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/davicafu/salesboard/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Con :memory: cada conexión es una base distinta.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOutboxRepoSQLite_RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := NewOutboxRepoSQLite(openTestDB(t))
	require.NoError(t, repo.InitOutboxSchema(ctx))

	older := domain.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "task",
		AggregateID:   "t-1",
		EventType:     "task.created",
		Payload:       map[string]interface{}{"id": "t-1", "revenue": 100.5},
		CreatedAt:     time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.ID = uuid.New()
	newer.EventType = "task.deleted"
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)

	// Act
	require.NoError(t, repo.Append(ctx, newer))
	require.NoError(t, repo.Append(ctx, older))
	pending, err := repo.FetchPendingOutbox(ctx, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, older.ID, pending[0].ID)
	assert.Equal(t, "t-1", pending[0].AggregateID)
	assert.True(t, pending[0].CreatedAt.Equal(older.CreatedAt))
	assert.Equal(t, map[string]interface{}{"id": "t-1", "revenue": 100.5}, pending[0].Payload)

	// Act: marcar el primero
	require.NoError(t, repo.MarkOutboxProcessed(ctx, older.ID))
	pending, err = repo.FetchPendingOutbox(ctx, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, newer.ID, pending[0].ID)
	assert.Error(t, repo.MarkOutboxProcessed(ctx, uuid.New()))
}
