// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/feedrank/internal/config"
)

// fakeServer stands in for *http.Server inside the supervisor tree.
type fakeServer struct {
	listening chan struct{}
	stop      chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{listening: make(chan struct{}), stop: make(chan struct{})}
}

func (s *fakeServer) ListenAndServe() error {
	close(s.listening)
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	close(s.stop)
	return nil
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("STORAGE_BACKEND", config.StorageMemoryBadger)
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("DISABLE_RATE_LIMIT", "true")

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	return cfg
}

type feedEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Posts  []json.RawMessage `json:"posts"`
		Cached bool              `json:"cached"`
	} `json:"data"`
}

func getFeed(t *testing.T, h http.Handler, path string) feedEnvelope {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d: %s", path, rec.Code, rec.Body.String())
	}
	var env feedEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	return env
}

func TestApp_EndToEnd(t *testing.T) {
	cfg := loadTestConfig(t)
	logger := zerolog.Nop()

	a, err := newApp(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.close()

	server := newFakeServer()
	tree, err := a.tree(server)
	if err != nil {
		t.Fatalf("tree() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree stopped with %v", err)
		}
	}()

	select {
	case <-server.listening:
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP service never started")
	}
	if !a.processor.IsRunning() {
		t.Fatal("HTTP service started before the event router")
	}

	first := getFeed(t, a.handler, "/api/v1/feed/alice")
	if !first.Success || len(first.Data.Posts) == 0 || first.Data.Cached {
		t.Fatalf("first feed = %+v", first)
	}
	if second := getFeed(t, a.handler, "/api/v1/feed/alice"); !second.Data.Cached {
		t.Fatal("second feed should come from cache")
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"author_id":"zoe","body":"fresh"}`))
	req.Header.Set("Content-Type", "application/json")
	a.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post status = %d: %s", rec.Code, rec.Body.String())
	}

	// The PostCreated subscriber acks before Publish returns.
	if after := getFeed(t, a.handler, "/api/v1/feed/alice"); after.Data.Cached {
		t.Error("feed still cached after a post was created")
	}
}

func TestApp_MemoryBackendWithoutHub(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Storage.Backend = config.StorageMemory
	cfg.Storage.SeedDemoData = false
	cfg.WebSocket.Enabled = false
	cfg.Breaker.Enabled = false

	a, err := newApp(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.close()

	if a.db != nil || a.hub != nil {
		t.Errorf("db = %v, hub = %v; want both nil", a.db, a.hub)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/ws status = %d, want 503", rec.Code)
	}
}

func TestApp_UnknownAlgorithm(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Ranking.PersonalizedAlgorithm = "trending_v1"

	if _, err := newApp(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Error("expected an error for a non-personalized default algorithm")
	}
}
