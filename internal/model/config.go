package model

import "time"

// Config holds the complete numinfo configuration
type Config struct {
	API          APIConfig          `yaml:"api" mapstructure:"api"`
	Batch        BatchConfig        `yaml:"batch" mapstructure:"batch"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Offline      OfflineConfig      `yaml:"offline" mapstructure:"offline"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// APIConfig describes the remote lookup endpoint
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Proxy        string        `yaml:"proxy" mapstructure:"proxy"` // URL prefix the escaped target is appended to (e.g. https://corsproxy.io/?)
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"` // Comma-separated hosts that bypass the proxies
}

// BatchConfig controls bulk submission throttling
type BatchConfig struct {
	Size                int           `yaml:"size" mapstructure:"size"`
	Delay               time.Duration `yaml:"delay" mapstructure:"delay"`
	LargeInputThreshold int           `yaml:"large_input_threshold" mapstructure:"large_input_threshold"`
}

// RateLimitingConfig is an optional per-host token bucket, 0 disables it
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls caching of raw lookup responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OfflineConfig configures resolution from bundled libphonenumber metadata
type OfflineConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	DefaultRegion string `yaml:"default_region" mapstructure:"default_region"`
	Language      string `yaml:"language" mapstructure:"language"`
}

// OutputConfig controls where exports go
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr          string        `yaml:"addr" mapstructure:"addr"`
	MaxUploadSize int64         `yaml:"max_upload_size" mapstructure:"max_upload_size"`
	ReadTimeout   time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://num.voxlink.ru/get/",
			Timeout:      15 * time.Second,
			UserAgent:    "numinfo/0.1 (+https://github.com/ppiankov/numinfo)",
			MaxBodyBytes: 64 << 10,
		},
		Batch: BatchConfig{
			Size:                3,
			Delay:               2 * time.Second,
			LargeInputThreshold: 100,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0,
			BurstSize:         3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Offline: OfflineConfig{
			DefaultRegion: "RU",
			Language:      "en",
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxUploadSize: 5 << 20,
			ReadTimeout:   30 * time.Second,
		},
		Log: LogConfig{
			Level: "error",
		},
	}
}
