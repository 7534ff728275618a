package pipeline

import (
	"github.com/ian97531/boombox/internal/app/model"
	"github.com/ian97531/boombox/internal/app/storage"
)

// Object namespaces
const (
	rawNamespace        = "raw"
	normalizedNamespace = "normalized"
	combinedNamespace   = "combined"
)

// Providers in merge order: the first is the left transcript, whose items win ties.
var Providers = []string{model.ProviderWatson, model.ProviderAWS}

// RawKey is where a provider's untouched output for a segment is stored.
func RawKey(provider, segmentKey string) string {
	return storage.Join(storage.Join(rawNamespace, provider), segmentKey)
}

// NormalizedKey is where the normalised items of a segment are stored.
func NormalizedKey(provider, segmentKey string) string {
	return storage.Join(storage.Join(normalizedNamespace, provider), segmentKey)
}

// NormalizedPrefix lists the normalised segments of an episode.
func NormalizedPrefix(provider string, ep model.EpisodeRef) string {
	return NormalizedKey(provider, ep.ObjectKey("")) + "/"
}

// ProviderKey is where the stitched transcript of one provider is stored.
func ProviderKey(provider string, ep model.EpisodeRef) string {
	return storage.Join(provider, ep.Key()+".json")
}

// CombinedKey is where the merged transcript of an episode is stored.
func CombinedKey(ep model.EpisodeRef) string {
	return storage.Join(combinedNamespace, ep.Key()+".json")
}
