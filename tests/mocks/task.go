package mocks

import (
	"context"
	"sync"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/stretchr/testify/mock"
)

// StubSource devuelve siempre los mismos registros (o el mismo error) y
// cuenta las llamadas. Si Block no es nil, espera a que se cierre o a ctx.
type StubSource struct {
	Records []taskDomain.RawRecord
	Err     error
	Block   chan struct{}

	mu    sync.Mutex
	calls int
}

func (s *StubSource) Fetch(ctx context.Context) ([]taskDomain.RawRecord, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Records, s.Err
}

func (s *StubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FlakySource falla las primeras Failures llamadas y luego responde Records.
type FlakySource struct {
	Records  []taskDomain.RawRecord
	Failures int
	Err      error

	mu    sync.Mutex
	calls int
}

func (s *FlakySource) Fetch(ctx context.Context) ([]taskDomain.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.Failures {
		return nil, s.Err
	}
	return s.Records, nil
}

func (s *FlakySource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// StubGenerator devuelve un lote fijo.
type StubGenerator struct {
	Tasks []taskDomain.Task
}

func (g *StubGenerator) Generate(now time.Time) []taskDomain.Task {
	out := make([]taskDomain.Task, len(g.Tasks))
	copy(out, g.Tasks)
	return out
}

// MockAnalyticsRepo simula un sink analítico.
type MockAnalyticsRepo struct {
	mock.Mock
}

func (m *MockAnalyticsRepo) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAnalyticsRepo) LogSnapshot(ctx context.Context, snap taskDomain.MetricsSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

// MockIngester simula el servicio visto desde el consumidor de ingesta.
type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) IngestRecords(ctx context.Context, records []taskDomain.RawRecord) []taskDomain.Task {
	args := m.Called(ctx, records)
	return args.Get(0).([]taskDomain.Task)
}

var _ taskDomain.RecordSource = (*StubSource)(nil)
var _ taskDomain.RecordSource = (*FlakySource)(nil)
var _ taskDomain.FallbackGenerator = (*StubGenerator)(nil)
var _ taskDomain.TaskAnalyticsRepository = (*MockAnalyticsRepo)(nil)
