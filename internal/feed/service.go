// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/store"
)

// MaxFeedLimit caps FeedOptions.Limit.
const MaxFeedLimit = 100

// Invalidation scopes carried by CacheInvalidated notifications.
const (
	ScopeUser = "user"
	ScopeAll  = "all"
)

// EventPublisher announces state changes to other components. Publishing
// is best effort: failures are logged and never fail the operation.
type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post *models.Post) error
	PublishInteractionRecorded(ctx context.Context, in *models.Interaction) error
	PublishCacheInvalidated(ctx context.Context, scope, userID string) error
}

// FeedOptions tunes a single feed request.
type FeedOptions struct {
	// Window is the trending lookback. Zero uses the configured default.
	Window time.Duration

	// Limit truncates the returned posts. Zero returns everything; values
	// above MaxFeedLimit are capped. The cache always holds the full ranking.
	Limit int
}

// FeedResponse is the result of GetFeed.
type FeedResponse struct {
	Success     bool          `json:"success"`
	Posts       []models.Post `json:"posts"`
	Total       int           `json:"total"`
	Cached      bool          `json:"cached"`
	AlgorithmID string        `json:"algorithm_id,omitempty"`
	Fallback    bool          `json:"fallback,omitempty"`
	Message     string        `json:"message,omitempty"`
	Error       string        `json:"error,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`

	// Err is the error behind Error, for errors.Is checks.
	Err error `json:"-"`
}

// InteractionResponse is the result of RecordInteraction.
type InteractionResponse struct {
	Success     bool                `json:"success"`
	Interaction *models.Interaction `json:"interaction,omitempty"`
	Error       string              `json:"error,omitempty"`

	Err error `json:"-"`
}

// Stats describes the cache and the active strategy.
type Stats struct {
	Cache           CacheStats `json:"cache"`
	ActiveAlgorithm string     `json:"active_algorithm"`
	Algorithms      []string   `json:"algorithms"`
}

// Options configures optional collaborators of a Service.
type Options struct {
	// PersonalizedAlgorithm names the strategy for personalized feeds.
	// Default: simple_v1.
	PersonalizedAlgorithm string

	// Learner receives accepted interactions. Default: LoggingLearner.
	Learner PreferenceLearner

	// Publisher announces created posts, interactions and invalidations.
	// When nil, post creation clears the cache directly.
	Publisher EventPublisher

	// Clock replaces time.Now, mainly for tests.
	Clock func() time.Time
}

// Service is the feed facade: it serves cached or freshly ranked feeds and
// keeps the cache consistent with writes.
type Service struct {
	posts    store.PostStore
	prefs    store.PreferenceStore
	registry *ranking.Registry
	cache    *FeedCache
	recorder *Recorder
	pub      EventPublisher
	now      func() time.Time
	logger   zerolog.Logger

	mu           sync.RWMutex
	personalized string
}

// NewService wires a Service. The registry must contain the trending and
// chronological strategies and the configured personalized strategy.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewService(posts store.PostStore, prefs store.PreferenceStore, registry *ranking.Registry, fc *FeedCache, opts Options, logger zerolog.Logger) (*Service, error) {
	if posts == nil || prefs == nil || registry == nil || fc == nil {
		return nil, errors.New("feed service: posts, prefs, registry and cache are required")
	}
	if opts.PersonalizedAlgorithm == "" {
		opts.PersonalizedAlgorithm = ranking.AlgorithmSimpleV1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if _, err := personalizedStrategy(registry, opts.PersonalizedAlgorithm); err != nil {
		return nil, fmt.Errorf("feed service: %w", err)
	}
	if _, err := registry.Lookup(ranking.AlgorithmTrendingV1, ranking.FeedTrending); err != nil {
		return nil, fmt.Errorf("feed service: %w", err)
	}
	if _, err := registry.Lookup(ranking.AlgorithmChronological, ranking.FeedChronological); err != nil {
		return nil, fmt.Errorf("feed service: %w", err)
	}

	recorder := NewRecorder(opts.Learner, fc, logger)
	recorder.now = opts.Clock

	return &Service{
		posts:        posts,
		prefs:        prefs,
		registry:     registry,
		cache:        fc,
		recorder:     recorder,
		pub:          opts.Publisher,
		now:          opts.Clock,
		logger:       logger.With().Str("component", "feed").Logger(),
		personalized: opts.PersonalizedAlgorithm,
	}, nil
}

// personalizedStrategy resolves a strategy usable for personalized feeds:
// a personalized ranker or the chronological ordering.
func personalizedStrategy(registry *ranking.Registry, name string) (ranking.RankingStrategy, error) {
	s, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	switch s.FeedType() {
	case ranking.FeedPersonalized, ranking.FeedChronological:
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q cannot serve personalized feeds", ranking.ErrUnknownStrategy, name)
	}
}

// ActiveAlgorithm returns the personalized strategy in use.
func (s *Service) ActiveAlgorithm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.personalized
}

func (s *Service) strategyFor(feedType ranking.FeedType) (ranking.RankingStrategy, error) {
	switch feedType {
	case ranking.FeedPersonalized:
		return personalizedStrategy(s.registry, s.ActiveAlgorithm())
	case ranking.FeedTrending:
		return s.registry.Lookup(ranking.AlgorithmTrendingV1, ranking.FeedTrending)
	case ranking.FeedChronological:
		return s.registry.Lookup(ranking.AlgorithmChronological, ranking.FeedChronological)
	default:
		return nil, fmt.Errorf("%w: %q", ranking.ErrUnknownFeedType, feedType)
	}
}

// windowed is implemented by strategies that normalize a lookback window.
type windowed interface {
	EffectiveWindow(window time.Duration) time.Duration
}

// GetFeed returns the feed of feedType for userID.
//
// Personalized and trending feeds are served from the cache while fresh;
// chronological feeds are always computed. A post store failure or a
// ranking failure yields Success=false and Fallback=true with a
// chronological fallback in Posts, never a hard error.
func (s *Service) GetFeed(ctx context.Context, userID string, feedType ranking.FeedType, opts FeedOptions) *FeedResponse {
	start := time.Now()

	strategy, err := s.strategyFor(feedType)
	if err != nil {
		return &FeedResponse{Posts: []models.Post{}, Error: err.Error(), Err: err}
	}

	window := opts.Window
	if w, ok := strategy.(windowed); ok {
		window = w.EffectiveWindow(window)
	}

	key, cacheable := CacheKey(feedType, userID, window)
	if cacheable {
		if entry, ok := s.cache.Get(key); ok {
			metrics.RecordFeedRequest(string(feedType), true)
			return &FeedResponse{
				Success:     true,
				Posts:       applyLimit(entry.Posts, opts.Limit),
				Total:       entry.Count,
				Cached:      true,
				AlgorithmID: entry.AlgorithmID,
				GeneratedAt: entry.GeneratedAt,
			}
		}
	}
	metrics.RecordFeedRequest(string(feedType), false)

	// Captured before the store read: any clear from here on wins.
	gen := s.cache.Generation()
	now := s.now()

	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		s.logger.Warn().Err(err).
			Str("user_id", userID).
			Str("feed_type", string(feedType)).
			Msg("Post store unavailable, serving chronological fallback")
		metrics.RecordFallback(string(feedType), "data_unavailable")

		fb := ranking.Fallback(posts, userID, now, err)
		return &FeedResponse{
			Posts:       applyLimit(fb.Posts, opts.Limit),
			Total:       len(fb.Posts),
			AlgorithmID: fb.AlgorithmID,
			Fallback:    true,
			Error:       err.Error(),
			GeneratedAt: now,
			Err:         err,
		}
	}

	if len(posts) == 0 {
		return &FeedResponse{
			Success:     true,
			Posts:       []models.Post{},
			AlgorithmID: strategy.Name(),
			Message:     "No posts available",
			GeneratedAt: now,
		}
	}

	req := ranking.Request{ViewerID: userID, Now: now, Window: window}
	if feedType == ranking.FeedPersonalized {
		req.Preferences = s.preferences(ctx, userID)
	}

	result := strategy.Rank(ctx, posts, req)
	metrics.RecordRanking(strategy.Name(), time.Since(start))

	resp := &FeedResponse{
		Success:     !result.Fallback,
		Posts:       applyLimit(result.Posts, opts.Limit),
		Total:       len(result.Posts),
		AlgorithmID: result.AlgorithmID,
		Fallback:    result.Fallback,
		GeneratedAt: result.GeneratedAt,
	}

	if result.Fallback {
		s.logger.Warn().Err(result.Err).
			Str("user_id", userID).
			Str("algorithm", strategy.Name()).
			Msg("Ranking failed, serving chronological fallback")
		metrics.RecordFallback(string(feedType), "ranking_failed")
		resp.Err = result.Err
		if result.Err != nil {
			resp.Error = result.Err.Error()
		}
		return resp
	}

	if cacheable && result.AlgorithmID != ranking.AlgorithmChronological {
		s.cache.Store(key, result.Posts, result.AlgorithmID, result.GeneratedAt, gen)
	}

	return resp
}

// preferences loads the viewer profile, degrading to the defaults.
func (s *Service) preferences(ctx context.Context, userID string) models.PreferenceProfile {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Preferences unavailable, using defaults")
		return models.DefaultPreferences()
	}
	return prefs
}

func applyLimit(posts []models.Post, limit int) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if limit <= 0 || limit >= len(posts) {
		return posts
	}
	return posts[:limit]
}

// RecordInteraction validates and records an interaction, then clears the
// user's cached feeds. Invalid interactions change nothing.
func (s *Service) RecordInteraction(ctx context.Context, in models.Interaction) *InteractionResponse {
	recorded, err := s.recorder.Record(ctx, in)
	if err != nil {
		s.logger.Debug().Err(err).Str("user_id", in.UserID).Msg("Interaction rejected")
		return &InteractionResponse{Error: err.Error(), Err: err}
	}

	if s.pub != nil {
		if err := s.pub.PublishInteractionRecorded(ctx, &recorded); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to publish interaction event")
		}
		s.publishInvalidated(ctx, ScopeUser, recorded.UserID)
	}

	return &InteractionResponse{Success: true, Interaction: &recorded}
}

// ClearCacheForUser removes the user's feeds and all trending feeds.
func (s *Service) ClearCacheForUser(ctx context.Context, userID string) int {
	removed := s.cache.ClearUser(userID)
	s.publishInvalidated(ctx, ScopeUser, userID)
	return removed
}

// ClearAllCache wipes the feed cache.
func (s *Service) ClearAllCache(ctx context.Context) {
	s.cache.ClearAll()
	s.publishInvalidated(ctx, ScopeAll, "")
}

func (s *Service) publishInvalidated(ctx context.Context, scope, userID string) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishCacheInvalidated(ctx, scope, userID); err != nil {
		s.logger.Warn().Err(err).Str("scope", scope).Msg("Failed to publish invalidation event")
	}
}

// SetStrategy switches the personalized strategy and clears the cache.
func (s *Service) SetStrategy(ctx context.Context, name string) error {
	if _, err := personalizedStrategy(s.registry, name); err != nil {
		return err
	}

	s.mu.Lock()
	previous := s.personalized
	s.personalized = name
	s.mu.Unlock()

	s.logger.Info().Str("from", previous).Str("to", name).Msg("Switched personalized ranking strategy")
	s.ClearAllCache(ctx)
	return nil
}

// Stats returns cache statistics and the strategy configuration.
func (s *Service) Stats() Stats {
	return Stats{
		Cache:           s.cache.Stats(),
		ActiveAlgorithm: s.ActiveAlgorithm(),
		Algorithms:      s.registry.Names(),
	}
}
