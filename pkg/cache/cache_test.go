package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "layout:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}

	// Unknown key misses without error
	_, hit, err = c.Get(ctx, "layout:zzz")
	if err != nil {
		t.Fatalf("Get miss: %v", err)
	}
	if hit {
		t.Error("expected miss for unknown key")
	}
}

func TestFileCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("stale"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expected expired entry to miss")
	}
}

func TestFileCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

// captureTTL records the TTL of the last Set so wrapper behavior is
// observable.
type captureTTL struct {
	NullCache
	last time.Duration
}

func (c *captureTTL) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.last = ttl
	return nil
}

func TestMaxTTLCache_CapsSet(t *testing.T) {
	ctx := context.Background()
	rec := &captureTTL{}
	c := NewMaxTTLCache(rec, time.Minute)

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if rec.last != time.Minute {
		t.Errorf("ttl = %v, want capped to %v", rec.last, time.Minute)
	}

	// TTLs under the cap pass through
	_ = c.Set(ctx, "k", []byte("v"), time.Second)
	if rec.last != time.Second {
		t.Errorf("ttl = %v, want %v", rec.last, time.Second)
	}

	// Unlimited entries are capped too
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if rec.last != time.Minute {
		t.Errorf("ttl = %v, want %v for unlimited input", rec.last, time.Minute)
	}
}

func TestMaxTTLCache_NonPositiveMaxIsPassthrough(t *testing.T) {
	inner := NewNullCache()
	if got := NewMaxTTLCache(inner, 0); got != inner {
		t.Error("expected the inner cache back when max <= 0")
	}
}

func TestFileCache_OverwriteRefreshesValue(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "key", []byte("v2"), 0); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	data, hit, _ := c.Get(ctx, "key")
	if !hit || string(data) != "v2" {
		t.Errorf("Get = %q (hit=%v), want v2", data, hit)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// HTTPKey stays readable, unhashed
	httpKey := k.HTTPKey("ics", "https://cal.example.com/team.ics")
	if httpKey != "http:ics:https://cal.example.com/team.ics" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	// DocumentKey must react to load options
	dk1 := k.DocumentKey("hash123", DocumentKeyOpts{Format: "yaml"})
	dk2 := k.DocumentKey("hash123", DocumentKeyOpts{Format: "ics"})
	if dk1 == dk2 {
		t.Error("Different DocumentKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(dk1, "document:") {
		t.Errorf("DocumentKey prefix unexpected: %s", dk1)
	}

	// LayoutKey must react to geometry
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{PixelsPerDay: 20, LaneHeight: 30})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{PixelsPerDay: 40, LaneHeight: 30})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	// ArtifactKey must react to render options
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Theme: "light"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "json", Theme: "light"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Same inputs, same key
	if k.LayoutKey("hash123", LayoutKeyOpts{PixelsPerDay: 20}) != k.LayoutKey("hash123", LayoutKeyOpts{PixelsPerDay: 20}) {
		t.Error("Keyer should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "team:platform:")

	httpKey := scoped.HTTPKey("ics", "feed")
	if httpKey != "team:platform:http:ics:feed" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", httpKey)
	}

	docKey := scoped.DocumentKey("hash", DocumentKeyOpts{})
	if !strings.HasPrefix(docKey, "team:platform:document:") {
		t.Errorf("ScopedKeyer DocumentKey should be prefixed: %s", docKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HTTPKey("ics", "feed")
	if key != "prefix:http:ics:feed" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
