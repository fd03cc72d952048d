// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package feed

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/cache"
	"github.com/tomtom215/feedrank/internal/models"
	"github.com/tomtom215/feedrank/internal/ranking"
	"github.com/tomtom215/feedrank/internal/ranking/reranking"
	"github.com/tomtom215/feedrank/internal/store"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testNow}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type harness struct {
	svc   *Service
	posts store.PostStore
	prefs *store.MemoryPreferenceStore
	cache *cache.Cache
	fc    *FeedCache
	clock *fakeClock
}

func newTestRegistry(t *testing.T) *ranking.Registry {
	t.Helper()
	cfg := ranking.DefaultConfig()

	personalized, err := ranking.NewPersonalizedStrategy(cfg, testLogger(), reranking.DefaultStages(cfg)...)
	if err != nil {
		t.Fatalf("NewPersonalizedStrategy() error = %v", err)
	}
	trending, err := ranking.NewTrendingStrategy(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewTrendingStrategy() error = %v", err)
	}
	reg, err := ranking.NewRegistry(personalized, trending, ranking.NewChronologicalStrategy())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func newHarness(t *testing.T, seed ...models.Post) *harness {
	t.Helper()
	return newHarnessWith(t, store.NewMemoryPostStore(seed...), Options{})
}

func newHarnessWith(t *testing.T, posts store.PostStore, opts Options) *harness {
	t.Helper()

	clock := newFakeClock()
	c := cache.New(5*time.Minute, cache.WithClock(clock.Now), cache.WithCleanupInterval(0))
	t.Cleanup(c.Close)

	fc := NewFeedCache(c, testLogger())
	prefs := store.NewMemoryPreferenceStore()
	opts.Clock = clock.Now

	svc, err := NewService(posts, prefs, newTestRegistry(t), fc, opts, testLogger())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	return &harness{svc: svc, posts: posts, prefs: prefs, cache: c, fc: fc, clock: clock}
}

func post(id, author string, age time.Duration, likes int64) models.Post {
	return models.Post{
		ID:        id,
		AuthorID:  author,
		Type:      models.PostTypePost,
		IsPublic:  true,
		Likes:     likes,
		CreatedAt: testNow.Add(-age),
	}
}

func samplePosts() []models.Post {
	return []models.Post{
		post("p1", "alice", 1*time.Hour, 10),
		post("p2", "bob", 2*time.Hour, 40),
		post("p3", "carol", 5*time.Hour, 3),
		post("p4", "dave", 30*time.Hour, 80),
		post("p5", "erin", 10*time.Hour, 0),
	}
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i := range posts {
		out[i] = posts[i].ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var errStoreDown = errors.New("connection refused")

// failingStore fails every read.
type failingStore struct {
	store.PostStore
}

func (failingStore) ListAll(context.Context) ([]models.Post, error) {
	return nil, errStoreDown
}

func (failingStore) ListByUser(context.Context, string) ([]models.Post, error) {
	return nil, errStoreDown
}

// blockingStore parks the first ListAll until release is closed.
type blockingStore struct {
	*store.MemoryPostStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingStore(seed ...models.Post) *blockingStore {
	return &blockingStore{
		MemoryPostStore: store.NewMemoryPostStore(seed...),
		started:         make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (s *blockingStore) ListAll(ctx context.Context) ([]models.Post, error) {
	first := false
	s.once.Do(func() {
		first = true
		close(s.started)
	})
	if first {
		<-s.release
	}
	return s.MemoryPostStore.ListAll(ctx)
}

type recordingLearner struct {
	mu    sync.Mutex
	calls []models.Interaction
	err   error
}

func (l *recordingLearner) Learn(_ context.Context, in models.Interaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, in)
	return l.err
}

func (l *recordingLearner) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

type invalidation struct {
	scope  string
	userID string
}

type recordingPublisher struct {
	mu            sync.Mutex
	posts         []string
	interactions  []models.Interaction
	invalidations []invalidation
	postErr       error
	onPostCreated func()
}

func (p *recordingPublisher) PublishPostCreated(_ context.Context, post *models.Post) error {
	p.mu.Lock()
	p.posts = append(p.posts, post.ID)
	hook, err := p.onPostCreated, p.postErr
	p.mu.Unlock()
	if err == nil && hook != nil {
		hook()
	}
	return err
}

func (p *recordingPublisher) PublishInteractionRecorded(_ context.Context, in *models.Interaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interactions = append(p.interactions, *in)
	return nil
}

func (p *recordingPublisher) PublishCacheInvalidated(_ context.Context, scope, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidations = append(p.invalidations, invalidation{scope: scope, userID: userID})
	return nil
}

var _ EventPublisher = (*recordingPublisher)(nil)
