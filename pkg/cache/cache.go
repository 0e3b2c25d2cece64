// Package cache stores computed layouts and rendered artifacts by content
// hash.
//
// Keys are derived from a hash of the input tree plus every option that
// changes the output, so a cached value never needs invalidation; entries
// only expire. Three backends implement [Cache]:
//
//   - [FileCache] for the CLI, under the XDG cache directory
//   - [RedisCache] for servers sharing one cache
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// LayoutKeyOpts lists the options that change a computed layout.
type LayoutKeyOpts struct {
	NodeWidth  float64 `json:"nw"`
	NodeHeight float64 `json:"nh"`
	SpouseGap  float64 `json:"sg"`
	SiblingGap float64 `json:"bg"`
	DummyGap   float64 `json:"dg"`
	RankSep    float64 `json:"rs"`
	Margin     float64 `json:"m"`
	Passes     int     `json:"p"`
	Iterations int     `json:"i"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"f"`
	Style    string `json:"s"`
	Detailed bool   `json:"d,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of the layout of the tree with the given hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of a rendering of the given input hash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
