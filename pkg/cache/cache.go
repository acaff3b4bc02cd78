// Package cache stores rendered artifacts so repeated requests for the same
// graph, selection and style parameters skip Graphviz.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared storage for server deployments
//
// # Keys
//
// A [Keyer] turns a graph hash and the artifact options into a stable key.
// [ScopedKeyer] prefixes keys so several graphs or tenants can share one
// backend:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "demo:")
//	key := keyer.ArtifactKey(cache.Hash(graphJSON), cache.ArtifactKeyOpts{
//	    Node:   "214328887",
//	    Layout: "circle",
//	    Format: "svg",
//	})
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts identifies one rendered artifact of a graph.
type ArtifactKeyOpts struct {
	Node           string `json:"node"`
	Layout         string `json:"layout"`
	Format         string `json:"format"`
	FollowerColor  string `json:"follower_color"`
	FollowingColor string `json:"following_color"`
	EdgeArrowShape string `json:"edge_arrow_shape"`
	NodeShape      string `json:"node_shape"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the graph hash and options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
