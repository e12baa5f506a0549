package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTask       = errors.New("invalid task")
	ErrSourceUnavailable = errors.New("task source unavailable")
	ErrEmptyPayload      = errors.New("empty task payload")
)

// --- Ingesta ---

// RecordSource entrega los registros candidatos de la carga inicial.
type RecordSource interface {
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// FallbackGenerator produce datos sintéticos válidos cuando la fuente falla.
type FallbackGenerator interface {
	Generate(now time.Time) []Task
}

// --- Analítica ---

// MetricsSnapshot es la foto que se exporta a los sinks analíticos.
type MetricsSnapshot struct {
	Version          uint64       `json:"version"`
	TakenAt          time.Time    `json:"takenAt"`
	TaskCount        int          `json:"taskCount"`
	Metrics          Metrics      `json:"metrics"`
	Funnel           Funnel       `json:"funnel"`
	WeightedPipeline float64      `json:"weightedPipeline"`
	Throughput       []WeekBucket `json:"throughput"`
}

type TaskAnalyticsRepository interface {
	InitSchema(ctx context.Context) error
	LogSnapshot(ctx context.Context, snap MetricsSnapshot) error
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func SeedCacheKey(source string) string {
	return fmt.Sprintf("tasks:seed:%s", source)
}
