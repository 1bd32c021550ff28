package application

import (
	"github.com/kerim-dauren/urikit/internal/domain"
	"github.com/kerim-dauren/urikit/internal/infrastructure/normalizer"
	"github.com/kerim-dauren/urikit/internal/infrastructure/storage"
)

type URINormalizer interface {
	Normalize(u *domain.URI, flags normalizer.Flags, opts normalizer.Options) *domain.URI
}

type RoutabilityClassifier interface {
	Classify(host string) domain.HostClass
}

type PunycodeCodec interface {
	ToPunycode(host string) string
	FromPunycode(host string) string
}

type LinkStore interface {
	Record(link string) bool
	Seen(link string) bool
	HasPrefix(prefix string) bool
	Stats() storage.StoreStats
	Clear()
}

// NormalizationPolicy is the flag set and options LinkService canonicalizes
// with.
type NormalizationPolicy struct {
	Flags   normalizer.Flags
	Options normalizer.Options
}

type LinkStats struct {
	Links           int64  `json:"links"`
	ExpectedLinks   uint   `json:"expected_links"`
	BloomFilterSize uint   `json:"bloom_filter_size"`
	LastUpdate      string `json:"last_update"`
	Flags           string `json:"flags"`
}
