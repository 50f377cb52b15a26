// Package viewport integrates the keyframe list into a per-frame crop
// rectangle (spec §4.5) and smooths the raw cursor path (spec §4.6), both
// via the critically damped spring. It plays the role the teacher's
// renderer.InterpolateKeyframes played, replacing ease-in-out lerp between
// keyframes with spring-driven motion that keeps moving smoothly even when
// a new keyframe arrives before the last one settled.
package viewport

import (
	"github.com/zoomreel/zoomreel/internal/director"
	"github.com/zoomreel/zoomreel/internal/jobtype"
	"github.com/zoomreel/zoomreel/internal/spring"
)

// defaultZoomHalfLife and defaultPanHalfLife apply when a keyframe carries
// no SpringHint (e.g. one supplied by an external override file).
const (
	defaultZoomHalfLife = 0.25
	defaultPanHalfLife  = 0.25
)

// CameraState is the resolved center and zoom at one instant.
type CameraState struct {
	CenterX, CenterY float64
	Zoom             float64
}

// Viewport advances three independent springs (center-x, center-y, zoom)
// across a monotonically increasing sequence of frame times, activating
// each keyframe's target and half-lives as its time is reached.
type Viewport struct {
	screenW, screenH float64

	kfs   []director.Keyframe
	kfIdx int

	springX, springY, springZoom spring.Spring
	zoomHalfLife, panHalfLife    float64

	lastT float64
	ready bool
}

// New builds a Viewport at rest, centered on the full screen at zoom 1.0.
// An empty keyframe list leaves the viewport at that identity framing for
// every frame, per spec's "auto-zoom disabled" case.
func New(kfs []director.Keyframe, screenW, screenH float64) *Viewport {
	v := &Viewport{
		screenW: screenW, screenH: screenH,
		kfs:          kfs,
		zoomHalfLife: defaultZoomHalfLife,
		panHalfLife:  defaultPanHalfLife,
	}
	v.springX = spring.New(screenW / 2)
	v.springY = spring.New(screenH / 2)
	v.springZoom = spring.New(1.0)
	return v
}

// Advance integrates the springs to time t (milliseconds since recording
// start) and returns the resulting crop rectangle, clamped to the screen.
// Successive calls must use non-decreasing t; the first call establishes
// the baseline and advances by zero.
func (v *Viewport) Advance(t float64) jobtype.Rect {
	dtMs := 0.0
	if v.ready {
		dtMs = t - v.lastT
	}
	v.lastT = t
	v.ready = true

	for v.kfIdx < len(v.kfs) && v.kfs[v.kfIdx].T <= t {
		kf := v.kfs[v.kfIdx]
		v.springX.Target = kf.TargetX
		v.springY.Target = kf.TargetY
		v.springZoom.Target = kf.ZoomLevel
		if kf.SpringHint != nil {
			v.panHalfLife = kf.SpringHint.PanHalfLife
			v.zoomHalfLife = kf.SpringHint.ZoomHalfLife
		} else {
			v.panHalfLife = defaultPanHalfLife
			v.zoomHalfLife = defaultZoomHalfLife
		}
		v.kfIdx++
	}

	dt := dtMs / 1000
	v.springX.Update(v.panHalfLife, dt)
	v.springY.Update(v.panHalfLife, dt)
	v.springZoom.Update(v.zoomHalfLife, dt)

	return v.cropRect()
}

// State returns the current resolved camera state without advancing.
func (v *Viewport) State() CameraState {
	return CameraState{CenterX: v.springX.Position, CenterY: v.springY.Position, Zoom: v.springZoom.Position}
}

// cropRect converts the current spring state into a source-screen crop
// rectangle, clamped so it never extends past the screen bounds (spec's
// viewport-bound invariant).
func (v *Viewport) cropRect() jobtype.Rect {
	zoom := v.springZoom.Position
	if zoom < 1.0 {
		zoom = 1.0
	}
	w := v.screenW / zoom
	h := v.screenH / zoom
	r := jobtype.Rect{
		X: v.springX.Position - w/2,
		Y: v.springY.Position - h/2,
		W: w,
		H: h,
	}
	return r.ClampWithin(v.screenW, v.screenH)
}
