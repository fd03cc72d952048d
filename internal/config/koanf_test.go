// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/feedrank/internal/ranking"
)

// isolate points the loader at an empty directory so no stray config file
// in the working directory is picked up.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Ranking.PersonalizedAlgorithm != ranking.AlgorithmSimpleV1 {
		t.Errorf("Ranking.PersonalizedAlgorithm = %q, want simple_v1", cfg.Ranking.PersonalizedAlgorithm)
	}
	if cfg.Ranking.DiversityCap != 2 {
		t.Errorf("Ranking.DiversityCap = %d, want 2", cfg.Ranking.DiversityCap)
	}
	if cfg.Ranking.TrendingLimit != 20 {
		t.Errorf("Ranking.TrendingLimit = %d, want 20", cfg.Ranking.TrendingLimit)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestRankingSettings_MatchesRankingDefaults guards against the two default
// tables drifting apart.
func TestRankingSettings_MatchesRankingDefaults(t *testing.T) {
	got := defaultConfig().RankingSettings()
	want := ranking.DefaultConfig()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankingSettings() = %+v, want %+v", got, want)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("LoadWithKoanf() = %+v, want defaults", cfg)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEED_CACHE_TTL", "10m")
	t.Setenv("RANKING_DIVERSITY_CAP", "3")
	t.Setenv("RANKING_JITTER_ENABLED", "false")
	t.Setenv("STORAGE_BACKEND", "memory_badger")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
	}
	if cfg.Ranking.DiversityCap != 3 {
		t.Errorf("Ranking.DiversityCap = %d, want 3", cfg.Ranking.DiversityCap)
	}
	if cfg.Ranking.JitterEnabled {
		t.Error("Ranking.JitterEnabled should be false")
	}
	if cfg.Storage.Backend != StorageMemoryBadger {
		t.Errorf("Storage.Backend = %q, want memory_badger", cfg.Storage.Backend)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	isolate(t)
	path := writeConfigFile(t, `
server:
  port: 7070
cache:
  ttl: 2m
ranking:
  trending_limit: 5
security:
  cors_origins:
    - https://feed.example
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TRENDING_LIMIT", "7")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("Cache.TTL = %v, want 2m from file", cfg.Cache.TTL)
	}
	if cfg.Ranking.TrendingLimit != 7 {
		t.Errorf("Ranking.TrendingLimit = %d, want 7 from env", cfg.Ranking.TrendingLimit)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://feed.example"}) {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default to survive", cfg.Server.Host)
	}
}

func TestLoadWithKoanf_InvalidFile(t *testing.T) {
	isolate(t)
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, "server: [unclosed"))

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	isolate(t)
	t.Setenv("RANKING_WEIGHT_RECENCY", "0.9")

	_, err := LoadWithKoanf()
	if err == nil {
		t.Fatal("expected validation error for weights not summing to 1")
	}
	if !strings.Contains(err.Error(), "weights must sum to 1.0") {
		t.Errorf("error = %v, want weight sum message", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want empty", got)
	}

	if err := os.WriteFile("config.yml", []byte("server:\n  port: 8081\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	explicit := writeConfigFile(t, "")
	t.Setenv(ConfigPathEnvVar, explicit)
	if got := findConfigFile(); got != explicit {
		t.Errorf("findConfigFile() = %q, want %q", got, explicit)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"http_port", "server.port"},
		{"FEED_CACHE_TTL", "cache.ttl"},
		{"RANKING_DIVERSITY_CAP", "ranking.diversity_cap"},
		{"STORAGE_BACKEND", "storage.backend"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestProcessSliceFields(t *testing.T) {
	k := koanf.New(".")
	if err := k.Set("security.cors_origins", " a , ,b"); err != nil {
		t.Fatal(err)
	}
	if err := processSliceFields(k); err != nil {
		t.Fatalf("processSliceFields() error = %v", err)
	}
	if got := k.Strings("security.cors_origins"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("cors_origins = %v, want [a b]", got)
	}
}
