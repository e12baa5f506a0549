package ingestion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_Array(t *testing.T) {
	records, err := DecodePayload([]byte(`[{"id":"1","revenue":1200.5},{"title":"x"}]`))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, json.Number("1200.5"), records[0]["revenue"])
}

func TestDecodePayload_Wrapped(t *testing.T) {
	records, err := DecodePayload([]byte(`  {"tasks":[{"title":"a"}]} `))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0]["title"])
}

func TestDecodePayload_Errors(t *testing.T) {
	_, err := DecodePayload([]byte("   "))
	assert.ErrorIs(t, err, taskDomain.ErrEmptyPayload)

	_, err = DecodePayload([]byte(`[{"title":`))
	assert.Error(t, err)

	records, err := DecodePayload([]byte(`{"other":1}`))
	assert.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestHTTPSource_Fetch(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"remote","status":"Done"}]`))
	}))
	defer server.Close()

	// Act
	records, err := NewHTTPSource(server.URL, time.Second).Fetch(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "remote", records[0]["title"])
}

func TestHTTPSource_BadStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	// Act
	_, err := NewHTTPSource(server.URL, time.Second).Fetch(context.Background())

	// Assert
	assert.ErrorIs(t, err, taskDomain.ErrSourceUnavailable)
}

func TestHTTPSource_ContextCancelled(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Act
	_, err := NewHTTPSource(server.URL, 5*time.Second).Fetch(ctx)

	// Assert
	assert.ErrorIs(t, err, taskDomain.ErrSourceUnavailable)
}

func TestFileSource_Fetch(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks":[{"title":"local"}]}`), 0o644))

	// Act
	records, err := NewSource("file://"+path, time.Second).Fetch(context.Background())
	_, missingErr := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "local", records[0]["title"])
	assert.ErrorIs(t, missingErr, taskDomain.ErrSourceUnavailable)
}

func TestNewSource_Selection(t *testing.T) {
	assert.Nil(t, NewSource("", time.Second))
	assert.IsType(t, &HTTPSource{}, NewSource("https://example.com/tasks.json", time.Second))
	assert.IsType(t, &FileSource{}, NewSource("./seed.json", time.Second))
}
