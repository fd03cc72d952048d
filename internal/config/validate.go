// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/ranking"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRanking(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateWebSocket(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

// validateRanking delegates coefficient checks to ranking.Config.Validate.
func (c *Config) validateRanking() error {
	switch c.Ranking.PersonalizedAlgorithm {
	case ranking.AlgorithmSimpleV1, ranking.AlgorithmChronological:
	default:
		return fmt.Errorf("ranking.personalized_algorithm must be %s or %s, got %q",
			ranking.AlgorithmSimpleV1, ranking.AlgorithmChronological, c.Ranking.PersonalizedAlgorithm)
	}
	if err := c.RankingSettings().Validate(); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("FEED_CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.CleanupInterval < 0 {
		return fmt.Errorf("FEED_CACHE_CLEANUP_INTERVAL must not be negative, got %v", c.Cache.CleanupInterval)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.GCInterval < 0 {
		return fmt.Errorf("STORAGE_GC_INTERVAL must not be negative, got %v", c.Storage.GCInterval)
	}
	switch c.Storage.Backend {
	case StorageMemory, StorageMemoryBadger:
		return nil
	case StorageBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=%s", StorageBadger)
		}
		return nil
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of %s, %s, %s; got %q",
			StorageMemory, StorageBadger, StorageMemoryBadger, c.Storage.Backend)
	}
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %v", c.Breaker.Timeout)
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_THRESHOLD must be in (0, 1], got %f", c.Breaker.FailureRatio)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must not be negative, got %d", c.Events.RetryCount)
	}
	if c.Events.CloseTimeout <= 0 {
		return fmt.Errorf("EVENTS_CLOSE_TIMEOUT must be positive, got %v", c.Events.CloseTimeout)
	}
	return nil
}

func (c *Config) validateWebSocket() error {
	if !c.WebSocket.Enabled {
		return nil
	}
	if c.WebSocket.NotifyRate <= 0 {
		return fmt.Errorf("WEBSOCKET_NOTIFY_RATE must be positive, got %f", c.WebSocket.NotifyRate)
	}
	if c.WebSocket.NotifyBurst < 1 {
		return fmt.Errorf("WEBSOCKET_NOTIFY_BURST must be at least 1, got %d", c.WebSocket.NotifyBurst)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
	}
	return nil
}
