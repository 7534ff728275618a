// Package gate tracks which parts of an episode have arrived so that stitching starts
// only after every segment of a provider is normalised, and merging only after every
// provider is stitched.
package gate

import (
	"context"
	"sync"

	"github.com/samber/lo"
)

// Gate records arrivals. Recording the same segment or provider twice is a no-op, so
// retried deliveries never complete a gate early.
type Gate interface {
	// RecordSegment marks segmentKey of provider as normalised and reports whether all
	// expected segments have been seen.
	RecordSegment(ctx context.Context, episodeKey, provider, segmentKey string, expected int) (bool, error)
	// RecordProvider marks provider as stitched and reports whether every required
	// provider has been seen.
	RecordProvider(ctx context.Context, episodeKey, provider string) (bool, error)
	// Reset forgets everything recorded for the episode.
	Reset(ctx context.Context, episodeKey string) error
}

// MemoryGate is a process-local Gate used when Redis is disabled.
type MemoryGate struct {
	mu        sync.Mutex
	providers []string
	segments  map[string]map[string]struct{}
	stitched  map[string]map[string]struct{}
}

// NewMemoryGate creates a gate that waits for the given providers.
func NewMemoryGate(providers []string) *MemoryGate {
	return &MemoryGate{
		providers: providers,
		segments:  make(map[string]map[string]struct{}),
		stitched:  make(map[string]map[string]struct{}),
	}
}

func add(sets map[string]map[string]struct{}, key, member string) int {
	set, ok := sets[key]
	if !ok {
		set = make(map[string]struct{})
		sets[key] = set
	}
	set[member] = struct{}{}
	return len(set)
}

func (g *MemoryGate) RecordSegment(_ context.Context, episodeKey, provider, segmentKey string, expected int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return add(g.segments, segmentsKey(episodeKey, provider), segmentKey) >= expected, nil
}

func (g *MemoryGate) RecordProvider(_ context.Context, episodeKey, provider string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	add(g.stitched, providersKey(episodeKey), provider)
	return hasAll(g.stitched[providersKey(episodeKey)], g.providers), nil
}

func (g *MemoryGate) Reset(_ context.Context, episodeKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, provider := range g.providers {
		delete(g.segments, segmentsKey(episodeKey, provider))
	}
	delete(g.stitched, providersKey(episodeKey))
	return nil
}

func hasAll(set map[string]struct{}, required []string) bool {
	return lo.EveryBy(required, func(p string) bool {
		_, ok := set[p]
		return ok
	})
}

const keyPrefix = "boombox:gate:"

func segmentsKey(episodeKey, provider string) string {
	return keyPrefix + episodeKey + ":" + provider + ":segments"
}

func providersKey(episodeKey string) string {
	return keyPrefix + episodeKey + ":providers"
}
