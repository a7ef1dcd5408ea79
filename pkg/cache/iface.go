package cache

import (
	"context"
	"time"
)

// Cache is the byte-level storage contract shared by all backends.
//
// Implementations store opaque byte slices under string keys with an
// optional time-to-live. The pipeline caches each stage output (loaded
// document, computed layout, rendered artifact) through this interface, so
// backends can be swapped per deployment: files for the CLI, Redis for the
// server, null to disable caching.
type Cache interface {
	// Get retrieves the value stored under key. The second return value
	// reports whether the key was found; expired or corrupt entries count
	// as misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Stage TTLs bound how long cached pipeline outputs are reused. Fetched
// feeds and parsed documents track upstream sources, so they expire
// quickly. Layouts and artifacts are pure functions of their hashed
// inputs and can live longer.
const (
	TTLHTTP     = 15 * time.Minute
	TTLDocument = 15 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// =============================================================================
// Keyer - Stage-Aware Key Derivation
// =============================================================================

// DocumentKeyOpts are the load options that change a parsed document.
type DocumentKeyOpts struct {
	Format         string // source format: "yaml" or "ics"
	RangeStart     string // explicit window override, "" when derived
	RangeEnd       string
	MaxOccurrences int // recurrence expansion cap, 0 for the default
}

// LayoutKeyOpts are the window and geometry options that change a
// computed layout.
type LayoutKeyOpts struct {
	RangeStart   string // explicit window override, "" when derived
	RangeEnd     string
	PixelsPerDay float64
	LaneHeight   float64
	LaneSpacing  float64
	Padding      float64
}

// ArtifactKeyOpts are the render options that change an output artifact.
type ArtifactKeyOpts struct {
	Format string // "svg" or "json"
	Theme  string
	Grid   bool
	Legend bool
}

// Keyer derives cache keys for each pipeline stage. Keys must be
// deterministic: the same inputs always map to the same key, and any option
// that changes the output must change the key.
type Keyer interface {
	// HTTPKey builds the key for a cached HTTP response body.
	HTTPKey(namespace, key string) string

	// DocumentKey builds the key for a parsed document, derived from the
	// source content hash and the load options.
	DocumentKey(sourceHash string, opts DocumentKeyOpts) string

	// LayoutKey builds the key for a computed layout, derived from the
	// document hash and the geometry options.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey builds the key for a rendered artifact, derived from the
	// layout hash and the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes stage inputs into "stage:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard Keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// HTTPKey builds a readable, unhashed key; response bodies are keyed by
// their full URL so they can be inspected in Redis directly.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// DocumentKey hashes the source content hash together with the load options.
func (k *DefaultKeyer) DocumentKey(sourceHash string, opts DocumentKeyOpts) string {
	return hashKey("document", sourceHash, opts)
}

// LayoutKey hashes the document hash together with the geometry options.
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
