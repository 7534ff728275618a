// Package normalize turns raw speech-recognition provider output into transcript items.
package normalize

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/transcript"
)

// Stats counts what a normalizer kept and skipped.
type Stats struct {
	Words       int `json:"words"`
	Punctuation int `json:"punctuation"`
}

// Result is the normalized form of one provider payload.
type Result struct {
	Items []transcript.Item
	Stats Stats
}

// Normalizer converts one raw provider payload.
type Normalizer interface {
	Provider() string
	Normalize(data []byte) (*Result, error)
}

// Registry looks up normalizers by provider name.
type Registry struct {
	mu          sync.RWMutex
	normalizers map[string]Normalizer
}

// NewRegistry creates a registry with the AWS and Watson normalizers registered.
func NewRegistry() *Registry {
	r := &Registry{normalizers: make(map[string]Normalizer)}
	_ = r.Register(NewAWS())
	_ = r.Register(NewWatson())
	return r
}

// Register adds a normalizer. Names must be unique.
func (r *Registry) Register(n Normalizer) error {
	if n == nil {
		return fmt.Errorf("normalizer cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.normalizers[n.Provider()]; exists {
		return fmt.Errorf("normalizer '%s' already registered", n.Provider())
	}
	r.normalizers[n.Provider()] = n
	return nil
}

// Get returns the normalizer for provider.
func (r *Registry) Get(provider string) (Normalizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.normalizers[provider]
	if !ok {
		return nil, apperrors.NotFound("normalizer", provider)
	}
	return n, nil
}

// Providers lists the registered provider names in order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.normalizers))
	for name := range r.normalizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
