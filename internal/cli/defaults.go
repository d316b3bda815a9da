package cli

import (
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/spf13/viper"
)

// setDefaults registers every config key so environment variables are
// picked up by Unmarshal even when no config file sets them
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.proxy", cfg.API.Proxy)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.max_body_bytes", cfg.API.MaxBodyBytes)
	v.SetDefault("api.http_proxy", cfg.API.HTTPProxy)
	v.SetDefault("api.https_proxy", cfg.API.HTTPSProxy)
	v.SetDefault("api.no_proxy", cfg.API.NoProxy)

	v.SetDefault("batch.size", cfg.Batch.Size)
	v.SetDefault("batch.delay", cfg.Batch.Delay)
	v.SetDefault("batch.large_input_threshold", cfg.Batch.LargeInputThreshold)

	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("offline.enabled", cfg.Offline.Enabled)
	v.SetDefault("offline.default_region", cfg.Offline.DefaultRegion)
	v.SetDefault("offline.language", cfg.Offline.Language)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.max_upload_size", cfg.Server.MaxUploadSize)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)

	v.SetDefault("log.level", cfg.Log.Level)
}
