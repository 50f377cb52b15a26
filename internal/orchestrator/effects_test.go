package orchestrator

import (
	"testing"

	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

func TestActiveClicksAtFiltersByWindow(t *testing.T) {
	clicks := []events.Event{
		{Kind: events.KindClick, T: 1000, X: 10, Y: 20},
		{Kind: events.KindClick, T: 5000, X: 30, Y: 40},
	}
	active := activeClicksAt(clicks, 1200, 400)
	if len(active) != 1 {
		t.Fatalf("expected 1 active click at t=1200, got %d", len(active))
	}
	if active[0].ElapsedMs != 200 {
		t.Errorf("expected elapsed 200ms, got %v", active[0].ElapsedMs)
	}

	none := activeClicksAt(clicks, 1500, 400)
	if len(none) != 0 {
		t.Errorf("expected no active clicks once the ring window has elapsed, got %d", len(none))
	}
}

func TestActiveClicksAtIgnoresFutureClicks(t *testing.T) {
	clicks := []events.Event{{Kind: events.KindClick, T: 2000, X: 0, Y: 0}}
	active := activeClicksAt(clicks, 1000, 400)
	if len(active) != 0 {
		t.Errorf("expected no active clicks before the click happens, got %d", len(active))
	}
}

func TestActiveBadgeAtPicksMostRecent(t *testing.T) {
	keys := []events.Event{
		{Kind: events.KindKeyPress, T: 1000, Key: "a", Modifiers: map[events.Modifier]bool{events.Ctrl: true}},
		{Kind: events.KindKeyPress, T: 1200, Key: "Enter"},
	}
	badge := activeBadgeAt(keys, 1400, 1500)
	if badge == nil {
		t.Fatal("expected an active badge")
	}
	if badge.Label != "Enter" {
		t.Errorf("expected the most recent key press to win, got %q", badge.Label)
	}
	if badge.ElapsedMs != 200 {
		t.Errorf("expected elapsed 200ms, got %v", badge.ElapsedMs)
	}
}

func TestActiveBadgeAtExpiresAfterDuration(t *testing.T) {
	keys := []events.Event{{Kind: events.KindKeyPress, T: 0, Key: "Enter"}}
	if badge := activeBadgeAt(keys, 2000, 1500); badge != nil {
		t.Errorf("expected no badge once the display window has elapsed, got %+v", badge)
	}
}

func TestCursorLookupHoldsLastSampleAtOrBeforeT(t *testing.T) {
	samples := []CursorSample{{T: 0}, {T: 100}, {T: 200}}
	smooth := []jobtype.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 20}}
	lookup := newCursorLookup(samples, smooth)

	if p, ok := lookup.At(150); !ok || p != (jobtype.Point{X: 10, Y: 10}) {
		t.Errorf("expected the t=100 sample held at t=150, got %+v ok=%v", p, ok)
	}
	if p, ok := lookup.At(0); !ok || p != (jobtype.Point{X: 0, Y: 0}) {
		t.Errorf("expected the first sample at t=0, got %+v ok=%v", p, ok)
	}
}

func TestCursorLookupEmptyIsInvalid(t *testing.T) {
	lookup := newCursorLookup(nil, nil)
	if _, ok := lookup.At(100); ok {
		t.Error("expected an empty lookup to report invalid")
	}
}
