// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if !approxEqual(cfg.Weights.Sum(), 1.0) {
		t.Errorf("weights sum = %f, want 1.0", cfg.Weights.Sum())
	}
	if cfg.Recency.PeakWindow != 24*time.Hour || cfg.Recency.MaxAge != 72*time.Hour {
		t.Errorf("recency = %+v", cfg.Recency)
	}
	if cfg.VideoBoost != 1.2 {
		t.Errorf("VideoBoost = %f, want 1.2", cfg.VideoBoost)
	}
	if cfg.Diversity.MaxConsecutive != 2 {
		t.Errorf("MaxConsecutive = %d, want 2", cfg.Diversity.MaxConsecutive)
	}
	if cfg.Jitter.Amplitude != 0.05 || !cfg.Jitter.Enabled {
		t.Errorf("jitter = %+v", cfg.Jitter)
	}
	if cfg.Trending.Limit != 20 || cfg.Trending.DefaultWindow != 24*time.Hour {
		t.Errorf("trending = %+v", cfg.Trending)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"weights not summing to one", func(c *Config) { c.Weights.Engagement = 0.5 }, "sum to 1.0"},
		{"negative weight", func(c *Config) { c.Weights.Recency = -0.1; c.Weights.Engagement = 0.8 }, "weights.recency"},
		{"max age below peak", func(c *Config) { c.Recency.MaxAge = 12 * time.Hour }, "recency.max_age"},
		{"saturation too small", func(c *Config) { c.Engagement.Saturation = 1 }, "engagement.saturation"},
		{"negative share weight", func(c *Config) { c.Engagement.ShareWeight = -1 }, "engagement weights"},
		{"affinity out of range", func(c *Config) { c.Affinity.Other = 2 }, "affinity.other"},
		{"video boost below one", func(c *Config) { c.VideoBoost = 0.5 }, "video_boost"},
		{"zero diversity cap", func(c *Config) { c.Diversity.MaxConsecutive = 0 }, "diversity.max_consecutive"},
		{"huge jitter", func(c *Config) { c.Jitter.Amplitude = 0.9 }, "jitter.amplitude"},
		{"tiny trending window", func(c *Config) { c.Trending.DefaultWindow = time.Minute }, "trending.default_window"},
		{"zero trending limit", func(c *Config) { c.Trending.Limit = 0 }, "trending.limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Weights.Recency = 0
	clone.Trending.Limit = 5

	if cfg.Weights.Recency != 0.4 || cfg.Trending.Limit != 20 {
		t.Error("Clone() shares state with original")
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"peak_window":"24h0m0s"`, `"max_age":"72h0m0s"`, `"default_window":"24h0m0s"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}
