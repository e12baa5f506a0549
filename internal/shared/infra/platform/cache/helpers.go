package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// asyncSetTimeout limita cuánto puede tardar una escritura en segundo plano.
const asyncSetTimeout = 200 * time.Millisecond

// AsyncCacheSet actualiza caché en background sin bloquear
func AsyncCacheSet(cache Cache, key string, value interface{}, ttlSecs int, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		// context.Background(): la escritura debe completarse aunque el contexto
		// de quien la pidió ya se haya cancelado.
		cacheCtx, cancel := context.WithTimeout(context.Background(), asyncSetTimeout)
		defer cancel()

		if err := cache.Set(cacheCtx, key, value, ttlSecs); err != nil {
			log.Warn("Cache update failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}
