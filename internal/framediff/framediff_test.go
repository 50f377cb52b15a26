package framediff

import (
	"testing"
)

func TestHasChangesInWindowDetectsInteriorRegion(t *testing.T) {
	regions := []ChangeRegion{{TimeMs: 1500}}
	if !HasChangesInWindow(regions, 1000, 2000) {
		t.Errorf("expected a region at t=1500 to fall inside (1000, 2000)")
	}
}

func TestHasChangesInWindowIgnoresBoundaryAndOutside(t *testing.T) {
	regions := []ChangeRegion{{TimeMs: 1000}, {TimeMs: 2000}, {TimeMs: 500}, {TimeMs: 2500}}
	if HasChangesInWindow(regions, 1000, 2000) {
		t.Errorf("expected regions exactly on the window boundary or outside it not to count")
	}
}

func TestHasChangesInWindowEmptyRegions(t *testing.T) {
	if HasChangesInWindow(nil, 0, 1000) {
		t.Errorf("expected no regions to mean no changes")
	}
}

func TestNearestCursorPicksCloserSample(t *testing.T) {
	samples := []CursorSample{{T: 0, X: 10, Y: 10}, {T: 1000, X: 500, Y: 500}}
	x, y := nearestCursor(samples, 900)
	if x != 500 || y != 500 {
		t.Errorf("expected the t=1000 sample to win at query time 900, got (%v, %v)", x, y)
	}
}

func TestNearestCursorNoSamplesDisablesMasking(t *testing.T) {
	x, y := nearestCursor(nil, 500)
	if x != -1 || y != -1 {
		t.Errorf("expected (-1, -1) sentinel with no cursor samples, got (%v, %v)", x, y)
	}
}

func TestDetectShortRecordingYieldsNoRegions(t *testing.T) {
	regions, err := Detect(nil, "", 1, 1000, nil, 1920, 1080, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if regions != nil {
		t.Errorf("expected nil regions for a single-frame recording, got %v", regions)
	}
}

func TestNearCursorMasksWithinRadius(t *testing.T) {
	factor := 4
	r2 := (50.0 / float64(factor)) * (50.0 / float64(factor))
	if !nearCursor(5, 5, 20, 20, factor, r2) {
		t.Errorf("expected a pixel near the cursor sample to be masked")
	}
	if nearCursor(100, 100, 20, 20, factor, r2) {
		t.Errorf("expected a pixel far from the cursor sample not to be masked")
	}
}
