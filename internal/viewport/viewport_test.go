package viewport

import (
	"testing"

	"github.com/zoomreel/zoomreel/internal/director"
)

func TestNewEmptyKeyframesStaysAtIdentity(t *testing.T) {
	v := New(nil, 1920, 1080)
	for _, t0 := range []float64{0, 500, 5000} {
		r := v.Advance(t0)
		if r.W != 1920 || r.H != 1080 {
			t.Errorf("at t=%v expected full-screen crop, got %+v", t0, r)
		}
	}
}

func TestAdvanceConvergesTowardKeyframeTarget(t *testing.T) {
	kfs := []director.Keyframe{
		{T: 0, TargetX: 960, TargetY: 540, ZoomLevel: 1.0, Transition: director.SpringIn,
			SpringHint: &director.SpringHint{ZoomHalfLife: 0.2, PanHalfLife: 0.2}},
		{T: 0, TargetX: 300, TargetY: 300, ZoomLevel: 3.0, Transition: director.SpringIn,
			SpringHint: &director.SpringHint{ZoomHalfLife: 0.2, PanHalfLife: 0.2}},
	}
	v := New(kfs, 1920, 1080)

	var last float64
	for ms := 0.0; ms <= 5000; ms += 16.67 {
		r := v.Advance(ms)
		last = r.W
	}
	// After 5 seconds at a 0.2s half-life the crop width should have
	// converged close to screenW/3.
	want := 1920.0 / 3.0
	if diff := last - want; diff > 5 || diff < -5 {
		t.Errorf("crop width after settling = %v, want ~%v", last, want)
	}
}

func TestAdvanceCropStaysWithinScreen(t *testing.T) {
	kfs := []director.Keyframe{
		{T: 0, TargetX: 10, TargetY: 10, ZoomLevel: 3.0, Transition: director.SpringIn,
			SpringHint: &director.SpringHint{ZoomHalfLife: 0.1, PanHalfLife: 0.1}},
	}
	v := New(kfs, 1920, 1080)

	for ms := 0.0; ms <= 2000; ms += 16.67 {
		r := v.Advance(ms)
		if r.X < 0 || r.Y < 0 || r.X+r.W > 1920 || r.Y+r.H > 1080 {
			t.Fatalf("crop rect escaped the screen at t=%v: %+v", ms, r)
		}
	}
}

func TestSmoothCursorFirstPointSnaps(t *testing.T) {
	out := SmoothCursor([]CursorSample{{T: 0, X: 100, Y: 200}})
	if len(out) != 1 || out[0].X != 100 || out[0].Y != 200 {
		t.Errorf("expected first sample to pass through unsmoothed, got %+v", out)
	}
}

func TestSmoothCursorPreGatesTremor(t *testing.T) {
	out := SmoothCursor([]CursorSample{
		{T: 0, X: 100, Y: 200},
		{T: 16, X: 100.5, Y: 200.3}, // well under 2px and 50px/s
	})
	if out[1].X != 100 || out[1].Y != 200 {
		t.Errorf("expected sub-threshold tremor pre-gated to the previous raw point, got %+v", out[1])
	}
}

func TestSmoothCursorFiltersLargeJump(t *testing.T) {
	out := SmoothCursor([]CursorSample{
		{T: 0, X: 0, Y: 0},
		{T: 16, X: 1000, Y: 1000},
	})
	if out[1].X <= 0 || out[1].X >= 1000 {
		t.Errorf("expected a large jump to be smoothed partway, got %+v", out[1])
	}
}

func TestSmoothCursorEmptyInput(t *testing.T) {
	if out := SmoothCursor(nil); out != nil {
		t.Errorf("expected nil output for empty input, got %v", out)
	}
}
