// Package analyzer groups a preprocessed event stream into Scenes: maximal
// time intervals of semantically related activity, per spec §4.3. It plays
// the same role the teacher's image-block detector played — turning raw
// material into the "blocks" the director assembles a camera path from —
// just over an event stream instead of pixels.
package analyzer

import (
	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// ActivityPoint is a time-and-place projection of a semantically meaningful
// event, used as input to scene splitting (spec §3). MouseMove never
// produces one; WindowFocus never produces one either, but updates the
// active window rectangle that later points carry.
type ActivityPoint struct {
	T          float64
	X, Y       float64
	WindowRect *jobtype.Rect
}

// keyClickLookbackMs is how far back a KeyPress may look for a Click to
// borrow coordinates from (spec §4.3 step 1).
const keyClickLookbackMs = 2000

// ExtractActivityPoints implements spec §4.3 step 1. MouseMove is ignored;
// WindowFocus updates the active window rectangle without emitting a point;
// Click/ClickRelease/Scroll use their own coordinates; KeyPress borrows the
// most recent Click's position within the lookback window, else the active
// window rect's center, else is discarded.
func ExtractActivityPoints(evts []events.Event) []ActivityPoint {
	var points []ActivityPoint

	var activeRect *jobtype.Rect
	var lastClick *events.Event

	for i := range evts {
		e := evts[i]
		switch e.Kind {
		case events.KindWindowFocus:
			r := jobtype.Rect{X: e.Rect.X, Y: e.Rect.Y, W: e.Rect.W, H: e.Rect.H}
			activeRect = &r

		case events.KindClick:
			lastClick = &evts[i]
			points = append(points, ActivityPoint{T: e.T, X: e.X, Y: e.Y, WindowRect: activeRect})

		case events.KindClickRelease, events.KindScroll:
			points = append(points, ActivityPoint{T: e.T, X: e.X, Y: e.Y, WindowRect: activeRect})

		case events.KindKeyPress:
			if lastClick != nil && e.T-lastClick.T <= keyClickLookbackMs && e.T-lastClick.T >= 0 {
				points = append(points, ActivityPoint{T: e.T, X: lastClick.X, Y: lastClick.Y, WindowRect: activeRect})
			} else if activeRect != nil {
				c := activeRect.Center()
				points = append(points, ActivityPoint{T: e.T, X: c.X, Y: c.Y, WindowRect: activeRect})
			}
			// else: discarded for scene-splitting purposes.

		case events.KindMouseMove:
			// ignored by the splitter
		}
	}

	return points
}
