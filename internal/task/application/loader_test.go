package application

import (
	"context"
	"errors"
	"testing"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/davicafu/salesboard/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fallbackBatch() *mocks.StubGenerator {
	return &mocks.StubGenerator{Tasks: []taskDomain.Task{
		{ID: "fb-1", Title: "fallback", TimeTaken: 1, Priority: taskDomain.PriorityLow, Status: taskDomain.TaskTodo},
	}}
}

func TestLoader_Success(t *testing.T) {
	// Arrange
	store := newTestStore(newFakeClock())
	source := &mocks.StubSource{Records: []taskDomain.RawRecord{{"title": "uno"}, {"title": "dos", "status": "Done"}}}
	loader := NewLoader(source, fallbackBatch(), store, zap.NewNop())

	// Act
	loader.Load(context.Background())

	// Assert
	loading, loadErr := store.LoadState()
	assert.False(t, loading)
	assert.Empty(t, loadErr)
	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "uno", tasks[0].Title)
	assert.NotEmpty(t, tasks[0].ID)
	assert.True(t, tasks[0].CreatedAt.Before(tasks[1].CreatedAt))
	require.NotNil(t, tasks[1].CompletedAt)
}

func TestLoader_SourceFailureUsesFallback(t *testing.T) {
	// Arrange
	store := newTestStore(newFakeClock())
	source := &mocks.StubSource{Err: errors.New("connection refused")}
	loader := NewLoader(source, fallbackBatch(), store, zap.NewNop())

	// Act
	loader.Load(context.Background())

	// Assert
	loading, loadErr := store.LoadState()
	assert.False(t, loading)
	assert.Contains(t, loadErr, "connection refused")
	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "fb-1", tasks[0].ID)
}

func TestLoader_NilSourceUsesFallback(t *testing.T) {
	// Arrange
	store := newTestStore(newFakeClock())
	loader := NewLoader(nil, fallbackBatch(), store, zap.NewNop())

	// Act
	loader.Load(context.Background())

	// Assert
	_, loadErr := store.LoadState()
	assert.Equal(t, taskDomain.ErrSourceUnavailable.Error(), loadErr)
	assert.Len(t, store.Tasks(), 1)
}

func TestLoader_CancelledDiscardsResult(t *testing.T) {
	// Arrange
	store := newTestStore(newFakeClock())
	source := &mocks.StubSource{Block: make(chan struct{})}
	loader := NewLoader(source, fallbackBatch(), store, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	// Act
	done := loader.LoadAsync(ctx)
	cancel()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("load did not finish after cancel")
	}
	assert.Empty(t, store.Tasks(), "el resultado se descarta")
	assert.Equal(t, uint64(0), store.Version())
	loading, _ := store.LoadState()
	assert.False(t, loading)
}

func TestLoader_LoadingVisibleWhileFetching(t *testing.T) {
	// Arrange
	store := newTestStore(newFakeClock())
	source := &mocks.StubSource{Block: make(chan struct{}), Records: []taskDomain.RawRecord{{"title": "tarde"}}}
	loader := NewLoader(source, fallbackBatch(), store, zap.NewNop())

	// Act
	done := loader.LoadAsync(context.Background())
	require.Eventually(t, func() bool { return source.Calls() == 1 }, time.Second, 5*time.Millisecond)
	loading, _ := store.LoadState()
	close(source.Block)
	<-done

	// Assert
	assert.True(t, loading)
	assert.False(t, store.Dashboard().Loading)
	assert.Len(t, store.Tasks(), 1)
}
