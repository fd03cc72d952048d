// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package config provides centralized configuration management for Feedrank.

Configuration is loaded with koanf in three layers, each overriding the one
before it:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/feedrank/config.yaml
 3. Environment variables

Only environment variables listed in the mapping table are read, so unrelated
variables never leak into the configuration.

# Environment Variables

Server:
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)

Ranking:
  - RANKING_PERSONALIZED_ALGORITHM: simple_v1 or chronological (default: simple_v1)
  - RANKING_DIVERSITY_CAP: Longest same-author run (default: 2)
  - RANKING_JITTER_AMPLITUDE: Score noise half-width (default: 0.05)
  - TRENDING_WINDOW, TRENDING_LIMIT: Trending lookback and size (default: 24h, 20)

Cache and storage:
  - FEED_CACHE_TTL: Feed cache time-to-live (default: 5m)
  - STORAGE_BACKEND: memory, badger or memory_badger (default: memory)
  - STORAGE_PATH: BadgerDB directory

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: Per-IP request limit
  - DISABLE_RATE_LIMIT: Turn rate limiting off

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	rankCfg := cfg.RankingSettings()
*/
package config
