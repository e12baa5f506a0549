package ingestion

import (
	"context"
	"time"

	sharedCache "github.com/davicafu/salesboard/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/salesboard/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
	"go.uber.org/zap"
)

const (
	fetchAttempts   = 3
	fetchRetryDelay = 200 * time.Millisecond
)

// CachedSource aplica cache-aside sobre otra fuente y reintenta la descarga.
type CachedSource struct {
	inner   taskDomain.RecordSource
	cache   sharedCache.Cache
	key     string
	ttlSecs int
	log     *zap.Logger
}

func NewCachedSource(inner taskDomain.RecordSource, cache sharedCache.Cache, location string, ttl time.Duration, log *zap.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   cache,
		key:     taskDomain.SeedCacheKey(location),
		ttlSecs: int(ttl.Seconds()),
		log:     log,
	}
}

func (s *CachedSource) Fetch(ctx context.Context) ([]taskDomain.RawRecord, error) {
	// 1. Intentar obtener de la caché
	if s.cache != nil {
		var cached []taskDomain.RawRecord
		hit, err := s.cache.Get(ctx, s.key, &cached)
		if err != nil {
			s.log.Warn("Seed cache read failed", zap.String("key", s.key), zap.Error(err))
		}
		if hit {
			s.log.Info("Seed payload served from cache", zap.String("key", s.key))
			return cached, nil
		}
	}

	// 2. Si es 'miss', ir a la fuente con reintentos
	var records []taskDomain.RawRecord
	err := sharedUtils.Retry(ctx, fetchAttempts, fetchRetryDelay, func() error {
		var errRetry error
		records, errRetry = s.inner.Fetch(ctx)
		return errRetry
	})
	if err != nil {
		return nil, err
	}

	// 3. Actualizar caché en segundo plano para el próximo arranque
	sharedCache.AsyncCacheSet(s.cache, s.key, records, s.ttlSecs, s.log)
	return records, nil
}
