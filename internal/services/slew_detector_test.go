package services

import (
	"context"
	"testing"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
)

func newTestDetector(t *testing.T) *SlewDetector {
	cache, err := common.NewPositionCache(16)
	if err != nil {
		t.Fatalf("Failed to build cache: %v", err)
	}
	return NewSlewDetector(cache, nil, nil)
}

func TestSlewDetector_FirstReportNeverFires(t *testing.T) {
	d := newTestDetector(t)
	if d.Check(context.Background(), "LVT001", "Test Pilot", 31.72, 35.99, 1_000_000) {
		t.Error("First report must not flag")
	}
}

func TestSlewDetector_JumpWithinWindowFires(t *testing.T) {
	d := newTestDetector(t)
	ctx := context.Background()

	d.Check(ctx, "LVT001", "Test Pilot", 0, 0, 1_000_000)
	// 0.5 degrees of longitude on the equator is ~30 nm, well past the
	// 10 nm threshold, 5 seconds apart.
	if !d.Check(ctx, "LVT001", "Test Pilot", 0, 0.5, 1_005_000) {
		t.Error("Expected a 30 nm jump in 5s to flag")
	}
}

func TestSlewDetector_SmallStepDoesNotFire(t *testing.T) {
	d := newTestDetector(t)
	ctx := context.Background()

	d.Check(ctx, "LVT001", "Test Pilot", 0, 0, 1_000_000)
	// ~9.6 nm, under the threshold.
	if d.Check(ctx, "LVT001", "Test Pilot", 0, 0.16, 1_005_000) {
		t.Error("A step under the distance threshold must not flag")
	}
}

func TestSlewDetector_ElapsedBoundaries(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		elapsed int64
		want    bool
	}{
		{"zero elapsed", 0, false},
		{"negative elapsed", -5_000, false},
		{"just inside window", constants.SlewWindowMs - 1, true},
		{"exactly at window", constants.SlewWindowMs, false},
		{"past window", constants.SlewWindowMs + 1, false},
	}
	for _, c := range cases {
		d := newTestDetector(t)
		d.Check(ctx, "LVT001", "Test Pilot", 0, 0, 1_000_000)
		got := d.Check(ctx, "LVT001", "Test Pilot", 0, 2.0, 1_000_000+c.elapsed)
		if got != c.want {
			t.Errorf("%s: expected fired=%v, got %v", c.name, c.want, got)
		}
	}
}

func TestSlewDetector_CacheAlwaysOverwritten(t *testing.T) {
	d := newTestDetector(t)
	ctx := context.Background()

	d.Check(ctx, "LVT001", "Test Pilot", 0, 0, 1_000_000)
	if !d.Check(ctx, "LVT001", "Test Pilot", 0, 2.0, 1_005_000) {
		t.Fatal("Expected the teleport to flag")
	}
	// The flagged position becomes the new baseline; a normal step from it
	// must pass.
	if d.Check(ctx, "LVT001", "Test Pilot", 0, 2.02, 1_010_000) {
		t.Error("A normal step after a flagged jump must not flag again")
	}
}
