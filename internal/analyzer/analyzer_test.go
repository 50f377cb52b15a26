package analyzer

import (
	"testing"

	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

func TestExtractActivityPointsKeyPressClickLookback(t *testing.T) {
	evts := []events.Event{
		{Kind: events.KindClick, T: 0, X: 10, Y: 20},
		{Kind: events.KindKeyPress, T: 1000, Key: "a"},
	}
	points := ExtractActivityPoints(evts)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[1].X != 10 || points[1].Y != 20 {
		t.Errorf("KeyPress should borrow click coords, got (%v,%v)", points[1].X, points[1].Y)
	}
}

func TestExtractActivityPointsKeyPressWindowCenter(t *testing.T) {
	evts := []events.Event{
		{Kind: events.KindWindowFocus, T: 0, Rect: events.WindowRect{X: 100, Y: 100, W: 800, H: 600}},
		{Kind: events.KindKeyPress, T: 3000, Key: "a"},
		{Kind: events.KindKeyPress, T: 3500, Key: "b"},
	}
	points := ExtractActivityPoints(evts)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].X != 500 || points[0].Y != 400 {
		t.Errorf("expected window-rect center (500,400), got (%v,%v)", points[0].X, points[0].Y)
	}
}

func TestExtractActivityPointsKeyPressDiscardedWithoutContext(t *testing.T) {
	evts := []events.Event{
		{Kind: events.KindKeyPress, T: 0, Key: "a"},
	}
	points := ExtractActivityPoints(evts)
	if len(points) != 0 {
		t.Errorf("expected KeyPress with no click/window context to be discarded, got %d points", len(points))
	}
}

func TestExtractActivityPointsIgnoresMouseMove(t *testing.T) {
	evts := []events.Event{
		{Kind: events.KindMouseMove, T: 0, X: 1, Y: 1},
		{Kind: events.KindClick, T: 10, X: 2, Y: 2},
	}
	points := ExtractActivityPoints(evts)
	if len(points) != 1 {
		t.Errorf("expected MouseMove ignored, got %d points", len(points))
	}
}

func TestSplitEmptyInput(t *testing.T) {
	scenes := Split(nil, 1920, 1080, 3.0)
	if len(scenes) != 0 {
		t.Errorf("expected empty scene list for empty input, got %d", len(scenes))
	}
}

func TestSplitSingleClickScene(t *testing.T) {
	// Scenario 2 from spec §8.
	points := []ActivityPoint{{T: 500, X: 500, Y: 300}}
	scenes := Split(points, 1920, 1080, 3.0)

	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}
	s := scenes[0]
	if s.ZoomLevel != 3.0 {
		t.Errorf("expected zoom clamped to max_zoom 3.0, got %v", s.ZoomLevel)
	}
	if !s.BBox.Contains(jobtype.Point{X: 500, Y: 300}) {
		t.Errorf("bbox %+v does not contain the click point", s.BBox)
	}
	if s.EventCount != 1 {
		t.Errorf("expected event count 1, got %d", s.EventCount)
	}
}

func TestSplitTerminalKeyInputScene(t *testing.T) {
	evts := []events.Event{
		{Kind: events.KindWindowFocus, T: 0, Rect: events.WindowRect{X: 100, Y: 100, W: 800, H: 600}},
		{Kind: events.KindKeyPress, T: 3000, Key: "a"},
		{Kind: events.KindKeyPress, T: 3200, Key: "b"},
		{Kind: events.KindKeyPress, T: 3500, Key: "c"},
	}
	points := ExtractActivityPoints(evts)
	scenes := Split(points, 1920, 1080, 3.0)

	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}
	if scenes[0].Center.X != 500 || scenes[0].Center.Y != 400 {
		t.Errorf("expected scene center (500,400), got %+v", scenes[0].Center)
	}
}

func TestSplitSceneCoverageIsDisjoint(t *testing.T) {
	points := []ActivityPoint{
		{T: 0, X: 0, Y: 0},
		{T: 100, X: 10, Y: 10},
		{T: 5000, X: 1000, Y: 1000},
	}
	scenes := Split(points, 1920, 1080, 3.0)

	seen := map[float64]bool{}
	for _, p := range points {
		found := 0
		for _, s := range scenes {
			if p.T >= s.StartT && p.T <= s.EndT {
				found++
			}
		}
		if found != 1 {
			t.Errorf("point at t=%v covered by %d scenes, want exactly 1", p.T, found)
		}
		seen[p.T] = true
	}
}

func TestSplitTemporalGapStartsNewGroup(t *testing.T) {
	points := []ActivityPoint{
		{T: 0, X: 0, Y: 0},
		{T: 100, X: 10, Y: 10},
		{T: 2000, X: 500, Y: 500}, // gap of 1900ms >= 1500ms threshold
	}
	scenes := Split(points, 1920, 1080, 3.0)
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes from temporal gap, got %d", len(scenes))
	}
}
