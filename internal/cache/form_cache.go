package cache

import (
	"context"
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	formKeyPrefix    = "form:hackathon:"
	cacheName        = "registration_form"
	cacheCheckPeriod = 30 * time.Second
	loadTimeout      = 10 * time.Second
)

// FormSource loads a form schema from durable storage
type FormSource interface {
	GetByHackathonID(ctx context.Context, hackathonID string) (*forms.FormSchema, error)
}

// FormCache is a read-through cache of form schemas keyed by hackathon id.
// Concurrent misses for the same hackathon share one load, which matters when
// a form opens and every registrant asks for it at once.
type FormCache struct {
	cache  *gocache.Cache
	source FormSource
	group  singleflight.Group
	ttl    time.Duration
}

// NewFormCache creates a form cache. A zero ttl disables caching.
func NewFormCache(source FormSource, ttl time.Duration) *FormCache {
	return &FormCache{
		cache:  gocache.New(ttl, cacheCheckPeriod),
		source: source,
		ttl:    ttl,
	}
}

// GetByHackathonID returns the cached schema or loads it from the source.
// Errors are never cached.
func (fc *FormCache) GetByHackathonID(ctx context.Context, hackathonID string) (*forms.FormSchema, error) {
	if fc.ttl <= 0 {
		return fc.source.GetByHackathonID(ctx, hackathonID)
	}

	key := formKeyPrefix + hackathonID
	if data, found := fc.cache.Get(key); found {
		if form, ok := data.(*forms.FormSchema); ok {
			metrics.CacheHits.WithLabelValues(cacheName).Inc()
			return form, nil
		}
		logger.Error("Invalid cache data type", zap.String("hackathon_id", hackathonID))
		fc.cache.Delete(key)
	}

	metrics.CacheMisses.WithLabelValues(cacheName).Inc()

	// The shared load is detached from the caller that started it.
	// Each caller stops waiting when its own context ends.
	ch := fc.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		form, err := fc.source.GetByHackathonID(loadCtx, hackathonID)
		if err != nil {
			return nil, err
		}
		fc.cache.Set(key, form, gocache.DefaultExpiration)
		metrics.CacheSize.WithLabelValues(cacheName).Set(float64(fc.cache.ItemCount()))
		return form, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		logger.Debug("Form load shared between concurrent requests", zap.String("hackathon_id", hackathonID))
	}

	return res.Val.(*forms.FormSchema), nil
}

// Invalidate drops the cached schema of a hackathon
func (fc *FormCache) Invalidate(hackathonID string) {
	fc.cache.Delete(formKeyPrefix + hackathonID)
	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(fc.cache.ItemCount()))
}
