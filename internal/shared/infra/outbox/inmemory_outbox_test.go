package outbox

import (
	"context"
	"testing"

	sharedDomain "github.com/davicafu/salesboard/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryOutbox_FIFOAndMark(t *testing.T) {
	// Arrange
	ctx := context.Background()
	o := NewInMemoryOutbox()
	first := sharedDomain.OutboxEvent{ID: uuid.New(), EventType: "task.created"}
	second := sharedDomain.OutboxEvent{ID: uuid.New(), EventType: "task.deleted"}
	require.NoError(t, o.Append(ctx, first))
	require.NoError(t, o.Append(ctx, second))

	// Act
	batch, err := o.FetchPendingOutbox(ctx, 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, first.ID, batch[0].ID)

	require.NoError(t, o.MarkOutboxProcessed(ctx, first.ID))
	assert.Equal(t, 1, o.Len())
	assert.Error(t, o.MarkOutboxProcessed(ctx, first.ID))

	rest, _ := o.FetchPendingOutbox(ctx, 10)
	require.Len(t, rest, 1)
	assert.Equal(t, second.ID, rest[0].ID)
}
