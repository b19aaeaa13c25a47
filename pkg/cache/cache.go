// Package cache provides content-addressed caching for built diagrams.
//
// Loading and normalizing a season of tournament files is cheap; the cache
// exists so repeated builds over an unchanged dataset (e.g. a cron job
// republishing the document) skip the build entirely. Backends:
//
//   - FileCache: XDG cache directory, the CLI default
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
//
// Keys are derived from a SHA-256 fingerprint of the loaded dataset, so any
// roster change produces a new key.
package cache

import (
	"context"
	"time"
)

// TTL values for cached diagrams.
const (
	// TTLDiagram is how long built diagrams stay cached. Tournament data is
	// effectively immutable once published, so this is generous.
	TTLDiagram = 30 * 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves data by key. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key with the given TTL. A zero TTL means
	// no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DiagramKeyOpts captures build options that affect cached output.
// Two datasets with identical fingerprints but different options must not
// share a cache entry.
type DiagramKeyOpts struct {
	Separator string `json:"separator,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// DiagramKey generates a key for a built diagram from the dataset
	// fingerprint hash.
	DiagramKey(datasetHash string, opts DiagramKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DiagramKey generates a key for a built diagram.
func (k *DefaultKeyer) DiagramKey(datasetHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", datasetHash, opts)
}
