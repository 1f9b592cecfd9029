package common

import "testing"

func TestPositionCache_SetGet(t *testing.T) {
	cache, err := NewPositionCache(8)
	if err != nil {
		t.Fatalf("NewPositionCache: %v", err)
	}

	if _, found := cache.Get("LVT001"); found {
		t.Error("expected miss on empty cache")
	}

	cache.Set("LVT001", 31.72, 35.99, 1000)
	snap, found := cache.Get("LVT001")
	if !found {
		t.Fatal("expected hit after Set")
	}
	if snap.Lat != 31.72 || snap.Lon != 35.99 || snap.Ts != 1000 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	// Last write wins
	cache.Set("LVT001", 32.0, 36.0, 2000)
	snap, _ = cache.Get("LVT001")
	if snap.Ts != 2000 {
		t.Errorf("expected overwrite, got ts=%d", snap.Ts)
	}
}

func TestPositionCache_Bounded(t *testing.T) {
	cache, err := NewPositionCache(2)
	if err != nil {
		t.Fatalf("NewPositionCache: %v", err)
	}

	cache.Set("A", 1, 1, 1)
	cache.Set("B", 2, 2, 2)
	cache.Set("C", 3, 3, 3)

	if cache.Len() != 2 {
		t.Errorf("expected 2 entries after eviction, got %d", cache.Len())
	}
	if _, found := cache.Get("A"); found {
		t.Error("expected oldest entry to be evicted")
	}
	if _, found := cache.Get("C"); !found {
		t.Error("expected newest entry to survive")
	}
}
