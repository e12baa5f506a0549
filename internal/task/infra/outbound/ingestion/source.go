package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
)

// maxPayloadBytes protege de recursos remotos desmesurados.
const maxPayloadBytes = 8 << 20

// HTTPSource descarga el recurso JSON con las tareas iniciales.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]taskDomain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", taskDomain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", taskDomain.ErrSourceUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return DecodePayload(data)
}

// -----------------------------------------------------------

// FileSource lee el mismo formato desde un fichero local.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]taskDomain.RawRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", taskDomain.ErrSourceUnavailable, err)
	}
	return DecodePayload(data)
}

// NewSource elige el adaptador según la forma de la ubicación. Vacío = sin fuente.
func NewSource(location string, timeout time.Duration) taskDomain.RecordSource {
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, timeout)
	default:
		return NewFileSource(strings.TrimPrefix(location, "file://"))
	}
}

// -----------------------------------------------------------

// DecodePayload acepta un array de registros o un objeto {"tasks": [...]}.
func DecodePayload(data []byte) ([]taskDomain.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, taskDomain.ErrEmptyPayload
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	if trimmed[0] == '{' {
		var wrapper struct {
			Tasks []taskDomain.RawRecord `json:"tasks"`
		}
		if err := dec.Decode(&wrapper); err != nil {
			return nil, fmt.Errorf("invalid task payload: %w", err)
		}
		return nonNil(wrapper.Tasks), nil
	}

	var records []taskDomain.RawRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid task payload: %w", err)
	}
	return nonNil(records), nil
}

func nonNil(records []taskDomain.RawRecord) []taskDomain.RawRecord {
	if records == nil {
		return []taskDomain.RawRecord{}
	}
	return records
}
