// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/feedrank/internal/ranking"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/feedrank/config.yaml",
	"/etc/feedrank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	rc := ranking.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Ranking: RankingConfig{
			PersonalizedAlgorithm: ranking.AlgorithmSimpleV1,
			WeightRecency:         rc.Weights.Recency,
			WeightEngagement:      rc.Weights.Engagement,
			WeightAffinity:        rc.Weights.Affinity,
			WeightContentType:     rc.Weights.ContentType,
			PeakWindow:            rc.Recency.PeakWindow,
			MaxAge:                rc.Recency.MaxAge,
			CommentWeight:         rc.Engagement.CommentWeight,
			ShareWeight:           rc.Engagement.ShareWeight,
			Saturation:            rc.Engagement.Saturation,
			SelfAffinity:          rc.Affinity.Self,
			OtherAffinity:         rc.Affinity.Other,
			NeutralContentScore:   rc.NeutralContentScore,
			VideoBoost:            rc.VideoBoost,
			DiversityCap:          rc.Diversity.MaxConsecutive,
			JitterEnabled:         rc.Jitter.Enabled,
			JitterAmplitude:       rc.Jitter.Amplitude,
			TrendingWindow:        rc.Trending.DefaultWindow,
			TrendingLimit:         rc.Trending.Limit,
			Seed:                  rc.Seed,
		},
		Cache: CacheConfig{
			TTL:             5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Storage: StorageConfig{
			Backend:      StorageMemory,
			Path:         "/data/feedrank",
			SeedDemoData: false,
			GCInterval:   10 * time.Minute,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  5,
			FailureRatio: 0.6,
		},
		Events: EventsConfig{
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			CloseTimeout:  10 * time.Second,
		},
		WebSocket: WebSocketConfig{
			Enabled:     true,
			NotifyRate:  2,
			NotifyBurst: 5,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers: struct defaults, an
// optional YAML file, then environment variables. Later layers win.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// FEED_CACHE_TTL -> cache.ttl
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// entry of DefaultConfigPaths, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// processSliceFields splits comma-separated env values into string slices.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Ranking mappings
	"ranking_personalized_algorithm": "ranking.personalized_algorithm",
	"ranking_weight_recency":         "ranking.weight_recency",
	"ranking_weight_engagement":      "ranking.weight_engagement",
	"ranking_weight_affinity":        "ranking.weight_affinity",
	"ranking_weight_content_type":    "ranking.weight_content_type",
	"ranking_peak_window":            "ranking.peak_window",
	"ranking_max_age":                "ranking.max_age",
	"ranking_video_boost":            "ranking.video_boost",
	"ranking_diversity_cap":          "ranking.diversity_cap",
	"ranking_jitter_enabled":         "ranking.jitter_enabled",
	"ranking_jitter_amplitude":       "ranking.jitter_amplitude",
	"ranking_seed":                   "ranking.seed",
	"trending_window":                "ranking.trending_window",
	"trending_limit":                 "ranking.trending_limit",

	// Cache mappings
	"feed_cache_ttl":              "cache.ttl",
	"feed_cache_cleanup_interval": "cache.cleanup_interval",

	// Storage mappings
	"storage_backend":     "storage.backend",
	"storage_path":        "storage.path",
	"seed_demo_data":      "storage.seed_demo_data",
	"storage_gc_interval": "storage.gc_interval",
	"breaker_enabled":     "breaker.enabled",
	"breaker_timeout":     "breaker.timeout",
	"breaker_min_reqs":    "breaker.min_requests",
	"breaker_threshold":   "breaker.failure_ratio",

	// Event router mappings
	"events_retry_count":    "events.retry_count",
	"events_retry_interval": "events.retry_interval",
	"events_close_timeout":  "events.close_timeout",

	// WebSocket mappings
	"websocket_enabled":      "websocket.enabled",
	"websocket_notify_rate":  "websocket.notify_rate",
	"websocket_notify_burst": "websocket.notify_burst",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped keys return "" so unrelated variables never pollute the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
