package preprocess

import (
	"testing"

	"github.com/zoomreel/zoomreel/internal/events"
)

func TestDecimationPreservesNonMouseMoveEvents(t *testing.T) {
	in := []events.Event{
		{Kind: events.KindClick, T: 0, X: 1, Y: 1},
		{Kind: events.KindMouseMove, T: 10, X: 1, Y: 1},
		{Kind: events.KindMouseMove, T: 20, X: 1.2, Y: 1.1},
		{Kind: events.KindKeyPress, T: 30, Key: "a"},
		{Kind: events.KindScroll, T: 5000, X: 5, Y: 5, DY: 1},
	}

	out, _ := Preprocess(in, DefaultConfig())

	var nonMove []events.Event
	for _, e := range out {
		if e.Kind != events.KindMouseMove {
			nonMove = append(nonMove, e)
		}
	}
	if len(nonMove) != 3 {
		t.Fatalf("expected 3 non-MouseMove events preserved, got %d", len(nonMove))
	}
	if nonMove[0].Kind != events.KindClick || nonMove[1].Kind != events.KindKeyPress || nonMove[2].Kind != events.KindScroll {
		t.Errorf("non-MouseMove order/identity changed: %+v", nonMove)
	}
}

func TestDecimationKeepsFirstMoveAfterQuietGap(t *testing.T) {
	in := []events.Event{
		{Kind: events.KindMouseMove, T: 0, X: 0, Y: 0},
		{Kind: events.KindMouseMove, T: 1000, X: 0.1, Y: 0.1}, // big gap, tiny move
	}
	out, _ := Preprocess(in, DefaultConfig())

	count := 0
	for _, e := range out {
		if e.Kind == events.KindMouseMove {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected both moves kept (first-after-quiet-gap rule), got %d", count)
	}
}

func TestDecimationDropsSubThresholdMoves(t *testing.T) {
	in := []events.Event{
		{Kind: events.KindMouseMove, T: 0, X: 0, Y: 0},
		{Kind: events.KindMouseMove, T: 10, X: 0.5, Y: 0},
		{Kind: events.KindMouseMove, T: 20, X: 1.0, Y: 0},
	}
	out, _ := Preprocess(in, DefaultConfig())

	count := 0
	for _, e := range out {
		if e.Kind == events.KindMouseMove {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected sub-threshold moves dropped, kept %d of 3", count)
	}
}

func TestDragInferenceConfirmedSpan(t *testing.T) {
	// Scenario 6 from spec §8: Click(t=100,200,200), moves totaling 80px,
	// ClickRelease(t=800,280,220).
	in := []events.Event{
		{Kind: events.KindClick, T: 100, X: 200, Y: 200},
		{Kind: events.KindMouseMove, T: 300, X: 240, Y: 210},
		{Kind: events.KindMouseMove, T: 500, X: 280, Y: 220},
		{Kind: events.KindClickRelease, T: 800, X: 280, Y: 220},
	}
	_, drags := Preprocess(in, DefaultConfig())

	if len(drags) != 1 {
		t.Fatalf("expected exactly one DragSpan, got %d", len(drags))
	}
	d := drags[0]
	if d.StartT != 100 || d.EndT != 800 {
		t.Errorf("drag span time = [%v,%v], want [100,800]", d.StartT, d.EndT)
	}
	if d.StartPos.X != 200 || d.StartPos.Y != 200 {
		t.Errorf("drag start pos = %+v, want (200,200)", d.StartPos)
	}
	if d.EndPos.X != 280 || d.EndPos.Y != 220 {
		t.Errorf("drag end pos = %+v, want (280,220)", d.EndPos)
	}
}

func TestDragInferenceRejectsShortPath(t *testing.T) {
	in := []events.Event{
		{Kind: events.KindClick, T: 0, X: 0, Y: 0},
		{Kind: events.KindMouseMove, T: 10, X: 5, Y: 0},
		{Kind: events.KindClickRelease, T: 20, X: 5, Y: 0},
	}
	_, drags := Preprocess(in, DefaultConfig())
	if len(drags) != 0 {
		t.Errorf("expected no drag span for sub-threshold path, got %d", len(drags))
	}
}

func TestDragInferenceFallbackToNextClick(t *testing.T) {
	in := []events.Event{
		{Kind: events.KindClick, T: 0, X: 0, Y: 0},
		{Kind: events.KindMouseMove, T: 10, X: 30, Y: 0},
		{Kind: events.KindMouseMove, T: 20, X: 60, Y: 0},
		{Kind: events.KindClick, T: 30, X: 60, Y: 0},
	}
	_, drags := Preprocess(in, DefaultConfig())
	if len(drags) != 1 {
		t.Fatalf("expected one fallback drag span, got %d", len(drags))
	}
	if drags[0].EndT != 30 {
		t.Errorf("fallback drag should terminate at next click, got EndT=%v", drags[0].EndT)
	}
}
