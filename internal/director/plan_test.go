package director

import (
	"testing"

	"github.com/zoomreel/zoomreel/internal/analyzer"
	"github.com/zoomreel/zoomreel/internal/framediff"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

func testDirector() *Director {
	return &Director{
		ScreenWidth:    1920,
		ScreenHeight:   1080,
		MaxZoom:        3.0,
		Speed:          jobtype.Mellow,
		ZoomOutIdleMs:  5000,
		OverviewIdleMs: 8000,
		RecordingMode:  jobtype.Display,
	}
}

func TestPlanEmptyScenesYieldsNoKeyframes(t *testing.T) {
	d := testDirector()
	if kfs := d.Plan(nil, 10000, true, nil); kfs != nil {
		t.Errorf("expected nil keyframes for empty scene list, got %v", kfs)
	}
}

func TestPlanAutoZoomDisabledYieldsNoKeyframes(t *testing.T) {
	d := testDirector()
	scenes := []analyzer.Scene{{StartT: 0, EndT: 500, Center: jobtype.Point{X: 500, Y: 300}, ZoomLevel: 3.0}}
	if kfs := d.Plan(scenes, 10000, false, nil); kfs != nil {
		t.Errorf("expected nil keyframes when auto-zoom disabled, got %v", kfs)
	}
}

func TestPlanSingleSceneEmitsSpringInAtZero(t *testing.T) {
	d := testDirector()
	scenes := []analyzer.Scene{{StartT: 500, EndT: 500, Center: jobtype.Point{X: 500, Y: 300}, ZoomLevel: 3.0}}
	kfs := d.Plan(scenes, 10000, true, nil)

	if len(kfs) != 1 {
		t.Fatalf("expected 1 keyframe, got %d", len(kfs))
	}
	kf := kfs[0]
	if kf.T != 0 {
		t.Errorf("expected first keyframe at t=0, got %v", kf.T)
	}
	if kf.Transition != SpringIn {
		t.Errorf("expected SpringIn, got %v", kf.Transition)
	}
	if kf.TargetX != 500 || kf.TargetY != 300 || kf.ZoomLevel != 3.0 {
		t.Errorf("unexpected keyframe target/zoom: %+v", kf)
	}
}

func TestPlanTwoScenesWithAnticipation(t *testing.T) {
	// Scenario 3 from spec §8: clicks at t=0 and t=3000.
	d := testDirector()
	scenes := []analyzer.Scene{
		{StartT: 0, EndT: 0, Center: jobtype.Point{X: 100, Y: 100}, ZoomLevel: 2.0},
		{StartT: 3000, EndT: 3000, Center: jobtype.Point{X: 900, Y: 500}, ZoomLevel: 2.0},
	}
	kfs := d.Plan(scenes, 5000, true, nil)

	if len(kfs) != 2 {
		t.Fatalf("expected 2 keyframes, got %d: %+v", len(kfs), kfs)
	}
	if kfs[0].T != 0 || kfs[0].Transition != SpringIn {
		t.Errorf("expected first keyframe at t=0 SpringIn, got %+v", kfs[0])
	}
	if kfs[1].T != 2250 {
		t.Errorf("expected anticipation keyframe at t=2250, got %v", kfs[1].T)
	}
	if kfs[1].Transition != Smooth {
		t.Errorf("expected Smooth transition between adjacent scenes, got %v", kfs[1].Transition)
	}
}

func TestPlanLongIdleSpringsOutToOverview(t *testing.T) {
	// Scenario 4 from spec §8: clicks at t=500 and t=15000, overview_idle_ms=8000.
	d := testDirector()
	scenes := []analyzer.Scene{
		{StartT: 500, EndT: 500, Center: jobtype.Point{X: 300, Y: 300}, ZoomLevel: 2.0},
		{StartT: 15000, EndT: 15000, Center: jobtype.Point{X: 1600, Y: 900}, ZoomLevel: 2.0},
	}
	kfs := d.Plan(scenes, 16000, true, nil)

	if len(kfs) != 3 {
		t.Fatalf("expected 3 keyframes, got %d: %+v", len(kfs), kfs)
	}
	if kfs[0].T != 0 || kfs[0].Transition != SpringIn {
		t.Errorf("expected first keyframe at t=0 SpringIn, got %+v", kfs[0])
	}
	mid := kfs[1]
	if mid.Transition != SpringOut {
		t.Errorf("expected SpringOut keyframe during long idle, got %v", mid.Transition)
	}
	if mid.TargetX != 960 || mid.TargetY != 540 || mid.ZoomLevel != 1.0 {
		t.Errorf("expected overview target (960,540) zoom=1.0, got (%v,%v) zoom=%v", mid.TargetX, mid.TargetY, mid.ZoomLevel)
	}
	last := kfs[2]
	if last.Transition != SpringIn {
		t.Errorf("expected SpringIn back into second scene after idle, got %v", last.Transition)
	}
	if last.T <= mid.T {
		t.Errorf("expected final keyframe after the overview keyframe, got %v <= %v", last.T, mid.T)
	}
}

func TestPlanLongIdleNoZoomOutWithScreenChanges(t *testing.T) {
	// Same gap as TestPlanLongIdleSpringsOutToOverview, but the screen kept
	// changing (a video playing) during the gap with no input events: the
	// overview spring-out must not fire.
	d := testDirector()
	scenes := []analyzer.Scene{
		{StartT: 500, EndT: 500, Center: jobtype.Point{X: 300, Y: 300}, ZoomLevel: 2.0},
		{StartT: 15000, EndT: 15000, Center: jobtype.Point{X: 1600, Y: 900}, ZoomLevel: 2.0},
	}
	changes := []framediff.ChangeRegion{{TimeMs: 7000}}
	kfs := d.Plan(scenes, 16000, true, changes)

	for _, kf := range kfs {
		if kf.Transition == SpringOut {
			t.Errorf("expected no spring-out keyframe while the screen was changing, got %+v", kfs)
		}
	}
}

func TestPlanTrailingIdleNoZoomOutWithScreenChanges(t *testing.T) {
	// The trailing-idle branch (after the loop) must honor the same gate.
	d := testDirector()
	scenes := []analyzer.Scene{
		{StartT: 500, EndT: 500, Center: jobtype.Point{X: 300, Y: 300}, ZoomLevel: 2.0},
	}
	changes := []framediff.ChangeRegion{{TimeMs: 5000}}
	kfs := d.Plan(scenes, 10000, true, changes)

	for _, kf := range kfs {
		if kf.Transition == SpringOut {
			t.Errorf("expected no trailing spring-out while the screen was changing, got %+v", kfs)
		}
	}
}

func TestPlanKeyframesAreTimeMonotonic(t *testing.T) {
	d := testDirector()
	scenes := []analyzer.Scene{
		{StartT: 0, EndT: 200, Center: jobtype.Point{X: 100, Y: 100}, ZoomLevel: 2.0},
		{StartT: 300, EndT: 400, Center: jobtype.Point{X: 120, Y: 120}, ZoomLevel: 2.0},
		{StartT: 20000, EndT: 20100, Center: jobtype.Point{X: 1800, Y: 1000}, ZoomLevel: 2.5},
	}
	kfs := d.Plan(scenes, 21000, true, nil)

	for i := 1; i < len(kfs); i++ {
		if kfs[i].T < kfs[i-1].T {
			t.Fatalf("keyframes not time-monotonic: %+v", kfs)
		}
	}
}
