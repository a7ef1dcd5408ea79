package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or users
// can share one backend without key collisions.
//
// Example usage:
//
//	// Per-source keys when one server hosts several timelines
//	teamKeyer := NewScopedKeyer(NewDefaultKeyer(), "team:platform:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every generated
// key. A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// DocumentKey generates a prefixed key for document caching.
func (k *ScopedKeyer) DocumentKey(sourceHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(sourceHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
