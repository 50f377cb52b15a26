package director

import (
	"github.com/zoomreel/zoomreel/internal/analyzer"
	"github.com/zoomreel/zoomreel/internal/framediff"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// Half-life table, base seconds, before the speed-preset multiplier (spec
// §4.4). Each pair is (zoomHalfLife, panHalfLife).
const (
	firstOrPostIdleZoomHL = 0.20
	firstOrPostIdlePanHL  = 0.20
	adjacentZoomHL        = 0.25
	adjacentPanHL         = 0.25
	mediumIdleZoomHL      = 0.35
	mediumIdlePanHL       = 0.30
	longIdleZoomHL        = 0.40
	longIdlePanHL         = 0.35

	anticipationFactor = 3.0
	minKeyframeGapMs   = 200.0
)

// Director converts a scene list plus idle spans into an ordered keyframe
// list with anticipatory timing. Generalizes the teacher's
// Director.GenerateScenario, which did the same for detected image blocks.
type Director struct {
	ScreenWidth, ScreenHeight float64
	MaxZoom                   float64
	Speed                     jobtype.SpeedPreset
	ZoomOutIdleMs             float64
	OverviewIdleMs            float64
	RecordingMode             jobtype.RecordingMode
}

// NewDirector builds a Director from the job's settings.
func NewDirector(screenW, screenH float64, s jobtype.Settings) *Director {
	return &Director{
		ScreenWidth:    screenW,
		ScreenHeight:   screenH,
		MaxZoom:        s.MaxZoom,
		Speed:          s.AnimationSpeed,
		ZoomOutIdleMs:  s.ZoomOutIdleMs,
		OverviewIdleMs: s.OverviewIdleMs,
		RecordingMode:  s.RecordingMode,
	}
}

// Plan implements spec §4.4. autoZoomEnabled=false returns an empty list
// (the viewport stays at identity), per spec's "auto-zoom disabled" case.
// changeRegions gates every idle-triggered spring-out: a gap with no input
// events still isn't idle if the screen itself kept changing underneath
// it (a video playing, a progress bar animating), so a change region
// falling inside the gap suppresses the zoom-out that would otherwise fire.
func (d *Director) Plan(scenes []analyzer.Scene, recordingEndMs float64, autoZoomEnabled bool, changeRegions []framediff.ChangeRegion) []Keyframe {
	if !autoZoomEnabled || len(scenes) == 0 {
		return nil
	}

	mult := d.Speed.Multiplier()
	var kfs []Keyframe
	lastKfT := -1.0 // sentinel: no keyframe emitted yet
	prevEnd := 0.0

	for i, scene := range scenes {
		if i == 0 {
			kf := Keyframe{
				T: 0, TargetX: scene.Center.X, TargetY: scene.Center.Y, ZoomLevel: scene.ZoomLevel,
				Transition: SpringIn,
				SpringHint: &SpringHint{ZoomHalfLife: firstOrPostIdleZoomHL * mult, PanHalfLife: firstOrPostIdlePanHL * mult},
			}
			kfs = append(kfs, kf)
			lastKfT = 0
			prevEnd = scene.EndT
			continue
		}

		gap := scene.StartT - prevEnd
		idleOut := false
		screenActive := framediff.HasChangesInWindow(changeRegions, prevEnd, scene.StartT)

		if gap >= d.OverviewIdleMs && d.RecordingMode == jobtype.Display && !screenActive {
			t := maxf(prevEnd+minKeyframeGapMs, lastKfT+minKeyframeGapMs)
			kf := Keyframe{
				T: t, TargetX: d.ScreenWidth / 2, TargetY: d.ScreenHeight / 2, ZoomLevel: 1.0,
				Transition: SpringOut,
				SpringHint: &SpringHint{ZoomHalfLife: longIdleZoomHL * mult, PanHalfLife: longIdlePanHL * mult},
			}
			kfs = appendDedup(kfs, kf)
			lastKfT = kfs[len(kfs)-1].T
			idleOut = true
		} else if gap >= d.ZoomOutIdleMs && !screenActive {
			prev := scenes[i-1]
			center, zoom := windowFit(prev, d.ScreenWidth, d.ScreenHeight, d.MaxZoom)
			t := maxf(prevEnd+minKeyframeGapMs, lastKfT+minKeyframeGapMs)
			kf := Keyframe{
				T: t, TargetX: center.X, TargetY: center.Y, ZoomLevel: zoom,
				Transition: SpringOut,
				SpringHint: &SpringHint{ZoomHalfLife: mediumIdleZoomHL * mult, PanHalfLife: mediumIdlePanHL * mult},
			}
			kfs = appendDedup(kfs, kf)
			lastKfT = kfs[len(kfs)-1].T
			idleOut = true
		}

		zoomHL := adjacentZoomHL * mult
		panHL := adjacentPanHL * mult
		transition := Smooth
		if idleOut {
			zoomHL = firstOrPostIdleZoomHL * mult
			panHL = firstOrPostIdlePanHL * mult
			transition = SpringIn
		}

		t := maxf(scene.StartT-anticipationFactor*panHL*1000, prevEnd)
		t = maxf(t, lastKfT+minKeyframeGapMs)

		kf := Keyframe{
			T: t, TargetX: scene.Center.X, TargetY: scene.Center.Y, ZoomLevel: scene.ZoomLevel,
			Transition: transition,
			SpringHint: &SpringHint{ZoomHalfLife: zoomHL, PanHalfLife: panHL},
		}
		kfs = appendDedup(kfs, kf)
		lastKfT = kfs[len(kfs)-1].T
		prevEnd = scene.EndT
	}

	if d.RecordingMode == jobtype.Display && recordingEndMs-prevEnd >= d.OverviewIdleMs &&
		!framediff.HasChangesInWindow(changeRegions, prevEnd, recordingEndMs) {
		t := maxf(prevEnd+minKeyframeGapMs, lastKfT+minKeyframeGapMs)
		kf := Keyframe{
			T: t, TargetX: d.ScreenWidth / 2, TargetY: d.ScreenHeight / 2, ZoomLevel: 1.0,
			Transition: SpringOut,
			SpringHint: &SpringHint{ZoomHalfLife: longIdleZoomHL * mult, PanHalfLife: longIdlePanHL * mult},
		}
		kfs = appendDedup(kfs, kf)
	}

	return collapseColinearZoom(kfs)
}

// windowFit returns the prior scene's window-fit center and zoom level: the
// scene's own window rectangle if known, else the scene's own bbox/zoom.
func windowFit(scene analyzer.Scene, screenW, screenH, maxZoom float64) (jobtype.Point, float64) {
	if scene.WindowRect == nil {
		return scene.Center, scene.ZoomLevel
	}
	w := *scene.WindowRect
	zoom := jobtype.Clamp(minf(screenW/w.W, screenH/w.H), 1.0, maxZoom)
	return w.Center(), zoom
}

// appendDedup appends kf to kfs, dropping the previous keyframe in favor of
// kf if they land within minKeyframeGapMs of each other (spec §4.4 dedup).
func appendDedup(kfs []Keyframe, kf Keyframe) []Keyframe {
	if len(kfs) > 0 && kf.T-kfs[len(kfs)-1].T < minKeyframeGapMs {
		kfs[len(kfs)-1] = kf
		return kfs
	}
	return append(kfs, kf)
}

// collapseColinearZoom drops a keyframe whose zoom level is within 0.01 of
// both neighbors (spec §4.4 dedup). Only zoom levels are compared: such a
// keyframe is dropped even when its pan target differs from its neighbors'.
func collapseColinearZoom(kfs []Keyframe) []Keyframe {
	if len(kfs) < 3 {
		return kfs
	}
	out := make([]Keyframe, 0, len(kfs))
	out = append(out, kfs[0])
	for i := 1; i < len(kfs)-1; i++ {
		prev := out[len(out)-1]
		next := kfs[i+1]
		if absf(prev.ZoomLevel-kfs[i].ZoomLevel) < 0.01 && absf(kfs[i].ZoomLevel-next.ZoomLevel) < 0.01 {
			continue
		}
		out = append(out, kfs[i])
	}
	out = append(out, kfs[len(kfs)-1])
	return out
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
