// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"time"

	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/store"
)

// Storage backends.
const (
	StorageMemory       = "memory"
	StorageBadger       = "badger"
	StorageMemoryBadger = "memory_badger"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Ranking   RankingConfig   `koanf:"ranking"`
	Cache     CacheConfig     `koanf:"cache"`
	Storage   StorageConfig   `koanf:"storage"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Events    EventsConfig    `koanf:"events"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RankingConfig holds the scoring and reranking coefficients.
type RankingConfig struct {
	// PersonalizedAlgorithm selects the strategy used for personalized feeds.
	PersonalizedAlgorithm string `koanf:"personalized_algorithm"`

	WeightRecency     float64 `koanf:"weight_recency"`
	WeightEngagement  float64 `koanf:"weight_engagement"`
	WeightAffinity    float64 `koanf:"weight_affinity"`
	WeightContentType float64 `koanf:"weight_content_type"`

	PeakWindow time.Duration `koanf:"peak_window"`
	MaxAge     time.Duration `koanf:"max_age"`

	CommentWeight float64 `koanf:"comment_weight"`
	ShareWeight   float64 `koanf:"share_weight"`
	Saturation    float64 `koanf:"saturation"`

	SelfAffinity  float64 `koanf:"self_affinity"`
	OtherAffinity float64 `koanf:"other_affinity"`

	NeutralContentScore float64 `koanf:"neutral_content_score"`
	VideoBoost          float64 `koanf:"video_boost"`

	DiversityCap    int     `koanf:"diversity_cap"`
	JitterEnabled   bool    `koanf:"jitter_enabled"`
	JitterAmplitude float64 `koanf:"jitter_amplitude"`

	TrendingWindow time.Duration `koanf:"trending_window"`
	TrendingLimit  int           `koanf:"trending_limit"`

	Seed int64 `koanf:"seed"`
}

// CacheConfig holds feed cache configuration
type CacheConfig struct {
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// StorageConfig selects the post store backend.
type StorageConfig struct {
	// Backend is one of memory, badger or memory_badger.
	Backend string `koanf:"backend"`

	// Path is the BadgerDB directory, required for the badger backend.
	Path string `koanf:"path"`

	// SeedDemoData loads a small set of demo posts into an empty store.
	SeedDemoData bool `koanf:"seed_demo_data"`

	// GCInterval is how often the BadgerDB value log is compacted.
	// Zero disables compaction.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// BreakerConfig holds the post store circuit breaker settings.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// EventsConfig holds the in-process event router settings.
type EventsConfig struct {
	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
}

// WebSocketConfig holds the notification hub settings.
type WebSocketConfig struct {
	Enabled bool `koanf:"enabled"`

	// NotifyRate is the sustained per-user notification rate in events per second.
	NotifyRate float64 `koanf:"notify_rate"`

	// NotifyBurst is the per-user burst size.
	NotifyBurst int `koanf:"notify_burst"`
}

// SecurityConfig holds CORS and rate limiting configuration
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// RankingSettings converts the flat ranking section into ranking.Config.
func (c *Config) RankingSettings() *ranking.Config {
	r := c.Ranking
	return &ranking.Config{
		Weights: ranking.ScoreWeights{
			Recency:     r.WeightRecency,
			Engagement:  r.WeightEngagement,
			Affinity:    r.WeightAffinity,
			ContentType: r.WeightContentType,
		},
		Recency: ranking.RecencyConfig{
			PeakWindow: r.PeakWindow,
			MaxAge:     r.MaxAge,
		},
		Engagement: ranking.EngagementConfig{
			CommentWeight: r.CommentWeight,
			ShareWeight:   r.ShareWeight,
			Saturation:    r.Saturation,
		},
		Affinity: ranking.AffinityConfig{
			Self:  r.SelfAffinity,
			Other: r.OtherAffinity,
		},
		NeutralContentScore: r.NeutralContentScore,
		VideoBoost:          r.VideoBoost,
		Diversity: ranking.DiversityConfig{
			MaxConsecutive: r.DiversityCap,
		},
		Jitter: ranking.JitterConfig{
			Enabled:   r.JitterEnabled,
			Amplitude: r.JitterAmplitude,
		},
		Trending: ranking.TrendingConfig{
			DefaultWindow: r.TrendingWindow,
			Limit:         r.TrendingLimit,
		},
		Seed: r.Seed,
	}
}

// BreakerSettings converts the breaker section into store.BreakerSettings.
func (c *Config) BreakerSettings() store.BreakerSettings {
	return store.BreakerSettings{
		Name:         "post-store",
		MaxRequests:  c.Breaker.MaxRequests,
		Interval:     c.Breaker.Interval,
		Timeout:      c.Breaker.Timeout,
		MinRequests:  c.Breaker.MinRequests,
		FailureRatio: c.Breaker.FailureRatio,
	}
}
