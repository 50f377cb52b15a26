// Package preprocess turns a raw event list into a decimated event list
// plus the inferred drag spans, per spec §4.2. Both operations are pure
// functions over their input slice.
package preprocess

import (
	"math"

	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// Config holds the decimation and drag-inference thresholds. Defaults match
// spec §4.2.
type Config struct {
	MinMoveDistance   float64 // px; default 3
	ProtectionWindow  float64 // ms; default 100
	QuietGap          float64 // ms; default 200
	DragConfirmPath   float64 // px; default 20
	DragFallbackPath  float64 // px; default 50
}

// DefaultConfig returns the spec's literal default thresholds.
func DefaultConfig() Config {
	return Config{
		MinMoveDistance:  3,
		ProtectionWindow: 100,
		QuietGap:         200,
		DragConfirmPath:  20,
		DragFallbackPath: 50,
	}
}

// DragSpan is a derived click-to-release drag, not part of the raw event
// log (spec §3).
type DragSpan struct {
	StartT, EndT       float64
	StartPos, EndPos   jobtype.Point
}

// Preprocess decimates MouseMove events and infers drag spans. Non-MouseMove
// events pass through unchanged and in the same relative order, satisfying
// the "decimation preserves semantics" property of spec §8.
func Preprocess(in []events.Event, cfg Config) ([]events.Event, []DragSpan) {
	decimated := decimate(in, cfg)
	drags := inferDrags(in, cfg)
	return decimated, drags
}

func decimate(in []events.Event, cfg Config) []events.Event {
	if len(in) == 0 {
		return nil
	}

	significant := make([]float64, 0, len(in))
	for _, e := range in {
		if e.Kind == events.KindClick || e.Kind == events.KindKeyPress || e.Kind == events.KindScroll {
			significant = append(significant, e.T)
		}
	}

	out := make([]events.Event, 0, len(in))
	var lastKept events.Event
	haveLastKept := false
	var lastAnyT float64
	haveLastAny := false

	for _, e := range in {
		if e.Kind != events.KindMouseMove {
			out = append(out, e)
			lastAnyT = e.T
			haveLastAny = true
			continue
		}

		keep := false
		if !haveLastKept {
			keep = true
		} else {
			dist := jobtype.Distance(jobtype.Point{X: lastKept.X, Y: lastKept.Y}, jobtype.Point{X: e.X, Y: e.Y})
			if dist >= cfg.MinMoveDistance {
				keep = true
			}
		}
		if !keep && withinProtectionWindow(e.T, significant, cfg.ProtectionWindow) {
			keep = true
		}
		if !keep && haveLastAny && (e.T-lastAnyT) >= cfg.QuietGap {
			keep = true
		}

		if keep {
			out = append(out, e)
			lastKept = e
			haveLastKept = true
		}

		lastAnyT = e.T
		haveLastAny = true
	}

	return out
}

func withinProtectionWindow(t float64, significant []float64, window float64) bool {
	for _, st := range significant {
		if math.Abs(t-st) <= window {
			return true
		}
	}
	return false
}

// inferDrags pairs each Click with its matching ClickRelease (or, absent
// one, the next Click as a 50px fallback terminator), confirming the span
// only if the cumulative in-between MouseMove path length clears the
// threshold, per spec §4.2.
func inferDrags(in []events.Event, cfg Config) []DragSpan {
	var drags []DragSpan

	for i, e := range in {
		if e.Kind != events.KindClick {
			continue
		}

		releaseIdx := -1
		for j := i + 1; j < len(in); j++ {
			if in[j].Kind == events.KindClickRelease && in[j].Button == e.Button {
				releaseIdx = j
				break
			}
		}

		if releaseIdx != -1 {
			path := pathLength(in, jobtype.Point{X: e.X, Y: e.Y}, i+1, releaseIdx)
			if path > cfg.DragConfirmPath {
				drags = append(drags, DragSpan{
					StartT:   e.T,
					EndT:     in[releaseIdx].T,
					StartPos: jobtype.Point{X: e.X, Y: e.Y},
					EndPos:   jobtype.Point{X: in[releaseIdx].X, Y: in[releaseIdx].Y},
				})
			}
			continue
		}

		// No release: fall back to a 50px path threshold terminating at
		// the next Click.
		nextClickIdx := -1
		for j := i + 1; j < len(in); j++ {
			if in[j].Kind == events.KindClick {
				nextClickIdx = j
				break
			}
		}
		if nextClickIdx == -1 {
			continue
		}
		path := pathLength(in, jobtype.Point{X: e.X, Y: e.Y}, i+1, nextClickIdx)
		if path > cfg.DragFallbackPath {
			drags = append(drags, DragSpan{
				StartT:   e.T,
				EndT:     in[nextClickIdx].T,
				StartPos: jobtype.Point{X: e.X, Y: e.Y},
				EndPos:   jobtype.Point{X: in[nextClickIdx].X, Y: in[nextClickIdx].Y},
			})
		}
	}

	return drags
}

// pathLength sums Euclidean distances along the path that starts at start
// (the Click's position) and visits every MouseMove event in the half-open
// index range [from, to).
func pathLength(in []events.Event, start jobtype.Point, from, to int) float64 {
	total := 0.0
	prev := start
	for i := from; i < to; i++ {
		if in[i].Kind != events.KindMouseMove {
			continue
		}
		p := jobtype.Point{X: in[i].X, Y: in[i].Y}
		total += jobtype.Distance(prev, p)
		prev = p
	}
	return total
}
