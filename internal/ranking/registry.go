// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package ranking

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the available strategies by name so the active
// personalized algorithm can be selected from configuration.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]RankingStrategy
}

// NewRegistry creates a registry pre-populated with strategies.
func NewRegistry(strategies ...RankingStrategy) (*Registry, error) {
	r := &Registry{strategies: make(map[string]RankingStrategy)}
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a strategy. Names must be unique.
func (r *Registry) Register(s RankingStrategy) error {
	if s == nil {
		return fmt.Errorf("strategy is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[s.Name()]; exists {
		return fmt.Errorf("strategy %q already registered", s.Name())
	}
	r.strategies[s.Name()] = s
	return nil
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (RankingStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Lookup returns the strategy registered under name if it serves feedType.
func (r *Registry) Lookup(name string, feedType FeedType) (RankingStrategy, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if s.FeedType() != feedType {
		return nil, fmt.Errorf("%w: %q serves %s feeds, not %s", ErrUnknownStrategy, name, s.FeedType(), feedType)
	}
	return s, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
