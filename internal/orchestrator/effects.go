package orchestrator

import (
	"sort"

	"github.com/zoomreel/zoomreel/internal/compositor"
	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// buildCursorSamples extracts a raw per-sample cursor path from the event
// stream: every MouseMove, plus Click/ClickRelease (which carry the
// cursor's position at the moment of the click), in time order.
func buildCursorSamples(evts []events.Event) []CursorSample {
	var out []CursorSample
	for _, ev := range evts {
		switch ev.Kind {
		case events.KindMouseMove, events.KindClick, events.KindClickRelease:
			out = append(out, CursorSample{T: ev.T, X: ev.X, Y: ev.Y})
		}
	}
	return out
}

// CursorSample mirrors viewport.CursorSample; kept as a local alias so this
// package's callers don't need to import viewport just to build the list.
type CursorSample = struct {
	T    float64
	X, Y float64
}

// activeClicksAt returns every Click whose elapsed time since t lies in
// [0, ringDurationMs], per spec §4.7 step 3.
func activeClicksAt(clicks []events.Event, t, ringDurationMs float64) []compositor.ActiveClick {
	var out []compositor.ActiveClick
	for _, ev := range clicks {
		elapsed := t - ev.T
		if elapsed < 0 || elapsed > ringDurationMs {
			continue
		}
		out = append(out, compositor.ActiveClick{X: ev.X, Y: ev.Y, ElapsedMs: elapsed})
	}
	return out
}

// activeBadgeAt returns the most recent badge-worthy KeyPress still within
// its display window at time t, or nil if none, per spec §4.7 step 4.
func activeBadgeAt(badgeEvents []events.Event, t, badgeDurationMs float64) *compositor.ActiveBadge {
	var best *events.Event
	for i := range badgeEvents {
		ev := &badgeEvents[i]
		elapsed := t - ev.T
		if elapsed < 0 || elapsed > badgeDurationMs {
			continue
		}
		if best == nil || ev.T > best.T {
			best = ev
		}
	}
	if best == nil {
		return nil
	}
	return &compositor.ActiveBadge{Label: compositor.FormatBadgeLabel(*best), ElapsedMs: t - best.T}
}

// filterClicks and filterBadgeWorthy partition the event stream once, up
// front, so the per-frame lookups above don't re-scan every event kind.
func filterClicks(evts []events.Event) []events.Event {
	var out []events.Event
	for _, ev := range evts {
		if ev.Kind == events.KindClick {
			out = append(out, ev)
		}
	}
	return out
}

func filterBadgeWorthy(evts []events.Event) []events.Event {
	var out []events.Event
	for _, ev := range evts {
		if compositor.IsBadgeWorthy(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// cursorLookup resolves the smoothed cursor position at an arbitrary frame
// timestamp by holding the last smoothed sample at or before t, since
// frame times rarely land exactly on a raw sample's timestamp.
type cursorLookup struct {
	samples []CursorSample
	smooth  []jobtype.Point
}

func newCursorLookup(samples []CursorSample, smooth []jobtype.Point) cursorLookup {
	return cursorLookup{samples: samples, smooth: smooth}
}

func (c cursorLookup) At(t float64) (jobtype.Point, bool) {
	if len(c.samples) == 0 {
		return jobtype.Point{}, false
	}
	i := sort.Search(len(c.samples), func(i int) bool { return c.samples[i].T > t })
	if i == 0 {
		return c.smooth[0], true
	}
	return c.smooth[i-1], true
}
