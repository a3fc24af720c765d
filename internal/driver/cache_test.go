package driver_test

import (
	"context"
	"testing"

	"sysyc/internal/driver"
	"sysyc/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := driver.CacheKey("0.1.0", "a.sy", []byte("int main() { return 0; }"))
	var entry driver.CacheEntry
	if ok, err := cache.Get(key, &entry); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}
	if err := cache.Put(key, &driver.CacheEntry{Schema: 1, Path: "a.sy", IR: "ir"}); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(key, &entry); !ok || err != nil || entry.IR != "ir" || entry.Created == 0 {
		t.Fatalf("Get = %v, %v, %+v", ok, err, entry)
	}
	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &entry); ok {
		t.Error("entry survived Clear")
	}
}

func TestCacheKeyDependsOnInputs(t *testing.T) {
	base := driver.CacheKey("0.1.0", "a.sy", []byte("x"))
	for _, other := range []driver.Digest{
		driver.CacheKey("0.2.0", "a.sy", []byte("x")),
		driver.CacheKey("0.1.0", "b.sy", []byte("x")),
		driver.CacheKey("0.1.0", "a.sy", []byte("y")),
	} {
		if other == base {
			t.Errorf("key collision for %s", other)
		}
	}
}

func TestCompileUsesCache(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := driver.Options{Cache: cache, Version: "test"}
	src := []byte("int main() { return 7; }")

	first := driver.CompileSource(context.Background(), source.NewFileSet(), "m.sy", src, opts)
	if first.Failed() || first.Cached {
		t.Fatalf("first build: failed %v, cached %v", first.Failed(), first.Cached)
	}
	second := driver.CompileSource(context.Background(), source.NewFileSet(), "m.sy", src, opts)
	if !second.Cached {
		t.Fatal("second build missed the cache")
	}
	if second.IR != first.IR {
		t.Errorf("cached IR differs:\n%s\n---\n%s", second.IR, first.IR)
	}

	broken := driver.CompileSource(context.Background(), source.NewFileSet(), "m.sy", []byte("int main() { return x; }"), opts)
	if broken.Cached || !broken.Failed() {
		t.Error("failed build served from cache")
	}
}
