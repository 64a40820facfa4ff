package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/smapshot/pkg/geo"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "osm:abc"); hit {
		t.Error("empty cache reported a hit")
	}
	if err := c.Set(ctx, "osm:abc", []byte("<osm/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "osm:abc")
	if err != nil || !hit || string(data) != "<osm/>" {
		t.Errorf("Get() = %q, %v, %v; want the stored value", data, hit, err)
	}

	// No temporary files survive a write.
	filepath.WalkDir(c.Dir(), func(path string, d os.DirEntry, err error) error {
		if err == nil && strings.HasPrefix(d.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", path)
		}
		return nil
	})

	if err := c.Delete(ctx, "osm:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "osm:abc"); hit {
		t.Error("Get after Delete reported a hit")
	}
	if err := c.Delete(ctx, "osm:abc"); err != nil {
		t.Errorf("Delete of a missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry reported a hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry was not removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want a silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	box := geo.BoundingBox{North: 1, South: 0, East: 1, West: 0}

	osm := k.OSMKey("https://overpass-api.de", box)
	if !strings.HasPrefix(osm, "osm:") {
		t.Errorf("OSMKey = %q, want osm: prefix", osm)
	}
	if osm == k.OSMKey("https://example.org", box) {
		t.Error("different sources should produce different keys")
	}
	nudged := box
	nudged.North += 1e-12
	if osm != k.OSMKey("https://overpass-api.de", nudged) {
		t.Error("boxes equal at query precision should share a key")
	}

	a1 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Width: 100, Height: 100})
	a2 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "pdf", Width: 100, Height: 100})
	if a1 == a2 {
		t.Error("different formats should produce different keys")
	}
	if got := k.JobKey("42"); got != "job:42" {
		t.Errorf("JobKey = %q, want job:42", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:7:")
	if got := scoped.JobKey("x"); got != "tenant:7:job:x" {
		t.Errorf("JobKey = %q", got)
	}
	if got := scoped.OSMKey("s", geo.BoundingBox{}); !strings.HasPrefix(got, "tenant:7:osm:") {
		t.Errorf("OSMKey = %q, want scoped prefix", got)
	}
}

func TestKeyType(t *testing.T) {
	tests := map[string]string{
		"osm:abc":       "osm",
		"job:1":         "job",
		"plain":         "plain",
		"t:7:artifact:": "t",
	}
	for in, want := range tests {
		if got := keyType(in); got != want {
			t.Errorf("keyType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions("localhost:6379")
	if err != nil || opts.Addr != "localhost:6379" {
		t.Errorf("redisOptions(host:port) = %+v, %v", opts, err)
	}
	opts, err = redisOptions("redis://:secret@cache.internal:6380/2")
	if err != nil {
		t.Fatalf("redisOptions(url) error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Errorf("redisOptions(url) = %+v", opts)
	}
	if _, err := redisOptions(""); err == nil {
		t.Error("redisOptions(\"\") should fail")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Error("Get against an unreachable server should fail")
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if _, err := Lookup(ctx, c, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Lookup(missing) error = %v, want ErrCacheMiss", err)
	}
	c.Set(ctx, "k", []byte("v"), 0)
	if data, err := Lookup(ctx, c, "k"); err != nil || string(data) != "v" {
		t.Errorf("Lookup(k) = %q, %v", data, err)
	}
}
