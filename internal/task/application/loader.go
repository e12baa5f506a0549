package application

import (
	"context"
	"time"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Loader ejecuta la carga inicial: fuente -> normalización -> store, con
// datos sintéticos como respaldo. Nunca propaga el fallo de la fuente.
type Loader struct {
	source   taskDomain.RecordSource
	fallback taskDomain.FallbackGenerator
	store    *TaskStore
	now      func() time.Time
	log      *zap.Logger
}

func NewLoader(source taskDomain.RecordSource, fallback taskDomain.FallbackGenerator, store *TaskStore, log *zap.Logger) *Loader {
	return &Loader{
		source:   source,
		fallback: fallback,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// Load bloquea hasta terminar la carga. Si ctx termina mientras se espera a
// la fuente, el resultado se descarta y solo se apaga el estado "loading".
func (l *Loader) Load(ctx context.Context) {
	l.store.BeginLoad()

	var records []taskDomain.RawRecord
	err := taskDomain.ErrSourceUnavailable
	if l.source != nil {
		records, err = l.source.Fetch(ctx)
	}

	if ctx.Err() != nil {
		l.store.AbortLoad()
		l.log.Info("Initial load abandoned, result discarded", zap.Error(ctx.Err()))
		return
	}

	now := l.now()
	if err != nil {
		fallback := l.fallback.Generate(now)
		l.log.Warn("⚠️ Task source failed, using generated data",
			zap.Error(err),
			zap.Int("tasks", len(fallback)),
		)
		l.store.FinishLoad(fallback, err)
		return
	}

	tasks := taskDomain.NormalizeRecords(records, now, uuid.NewString)
	l.store.FinishLoad(tasks, nil)
	l.log.Info("✅ Tasks loaded", zap.Int("tasks", len(tasks)))
}

// LoadAsync lanza Load en segundo plano; las lecturas ven "loading" mientras tanto.
func (l *Loader) LoadAsync(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Load(ctx)
	}()
	return done
}
