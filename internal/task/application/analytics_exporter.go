package application

import (
	"context"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"go.uber.org/zap"
)

// AnalyticsExporter vuelca una foto de las métricas al sink analítico cada
// vez que la colección cambió desde la última exportación.
type AnalyticsExporter struct {
	store        *TaskStore
	repo         taskDomain.TaskAnalyticsRepository
	interval     time.Duration
	log          *zap.Logger
	lastExported uint64
	exportedOnce bool
}

func NewAnalyticsExporter(store *TaskStore, repo taskDomain.TaskAnalyticsRepository, interval time.Duration, log *zap.Logger) *AnalyticsExporter {
	return &AnalyticsExporter{
		store:    store,
		repo:     repo,
		interval: interval,
		log:      log,
	}
}

// Start bloquea hasta que ctx termina.
func (e *AnalyticsExporter) Start(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("📊 Analytics exporter started", zap.Duration("interval", e.interval))
	for {
		select {
		case <-ctx.Done():
			e.log.Info("🛑 Analytics exporter stopped")
			return
		case <-ticker.C:
			if _, err := e.ExportOnce(ctx); err != nil {
				e.log.Warn("⚠️ Analytics export failed", zap.Error(err))
			}
		}
	}
}

// ExportOnce exporta si hay cambios. Devuelve si llegó a escribir.
// Si el sink falla, la misma versión se reintenta en el siguiente tick.
func (e *AnalyticsExporter) ExportOnce(ctx context.Context) (bool, error) {
	dash := e.store.Dashboard()
	if dash.Loading || (e.exportedOnce && dash.Version == e.lastExported) {
		return false, nil
	}

	snap := taskDomain.MetricsSnapshot{
		Version:          dash.Version,
		TakenAt:          time.Now().UTC(),
		TaskCount:        len(dash.Tasks),
		Metrics:          dash.Metrics,
		Funnel:           dash.Funnel,
		WeightedPipeline: dash.WeightedPipeline,
		Throughput:       dash.Throughput,
	}
	if err := e.repo.LogSnapshot(ctx, snap); err != nil {
		return false, err
	}

	e.lastExported = dash.Version
	e.exportedOnce = true
	e.log.Debug("Analytics snapshot exported", zap.Uint64("version", dash.Version))
	return true, nil
}
