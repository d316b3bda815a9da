package pipeline

import (
	"fmt"

	"github.com/ppiankov/numinfo/internal/cache"
	"github.com/ppiankov/numinfo/internal/lookup"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/worker"
	"go.uber.org/zap"
)

// NewClient builds the lookup client described by cfg
func NewClient(cfg *model.Config, notifier notify.Notifier, logger *zap.Logger) (lookup.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Offline.Enabled {
		return lookup.NewOfflineResolver(cfg.Offline.DefaultRegion, cfg.Offline.Language, notifier, logger.Named("offline")), nil
	}

	endpoint, err := lookup.ParseEndpoint(cfg.API.BaseURL, cfg.API.Proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid api endpoint: %w", err)
	}

	opts := []lookup.Option{
		lookup.WithLogger(logger.Named("lookup")),
		lookup.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
	}
	if notifier != nil {
		opts = append(opts, lookup.WithNotifier(notifier))
	}
	if cfg.API.HTTPProxy != "" || cfg.API.HTTPSProxy != "" {
		opts = append(opts, lookup.WithProxy(cfg.API.HTTPProxy, cfg.API.HTTPSProxy, cfg.API.NoProxy))
	}
	if cfg.Cache.Enabled {
		store := cache.New(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		if n, err := cache.Prune(store); err != nil {
			logger.Warn("cache prune failed", zap.String("dir", cfg.Cache.Dir), zap.Error(err))
		} else if n > 0 {
			logger.Debug("pruned expired cache entries", zap.Int("removed", n))
		}
		opts = append(opts, lookup.WithCache(store, 0))
	}

	return lookup.NewHTTPClient(endpoint, cfg.API.Timeout, cfg.API.UserAgent, cfg.API.MaxBodyBytes, opts...), nil
}
