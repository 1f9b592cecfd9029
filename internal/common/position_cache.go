package common

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// PositionSnapshot is the last known position for a pilot, used only by the
// slew heuristic. Not persisted and not shared across instances.
type PositionSnapshot struct {
	Lat float64
	Lon float64
	Ts  int64 // epoch millis
}

// PositionCache is a bounded last-write-wins store keyed by pilot identifier.
// The LRU bound replaces unbounded growth; evicting a cold entry only costs
// one missed slew check on that pilot's next report.
type PositionCache struct {
	entries *lru.Cache[string, PositionSnapshot]
}

func NewPositionCache(size int) (*PositionCache, error) {
	entries, err := lru.New[string, PositionSnapshot](size)
	if err != nil {
		return nil, err
	}
	return &PositionCache{entries: entries}, nil
}

func (c *PositionCache) Get(pilotKey string) (PositionSnapshot, bool) {
	return c.entries.Get(pilotKey)
}

func (c *PositionCache) Set(pilotKey string, lat, lon float64, tsMillis int64) {
	c.entries.Add(pilotKey, PositionSnapshot{Lat: lat, Lon: lon, Ts: tsMillis})
}

func (c *PositionCache) Len() int {
	return c.entries.Len()
}
