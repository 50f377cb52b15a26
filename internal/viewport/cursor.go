package viewport

import (
	"github.com/zoomreel/zoomreel/internal/jobtype"
	"github.com/zoomreel/zoomreel/internal/spring"
)

// CursorHalfLife is the fixed half-life (seconds) spec §4.6 applies to the
// cursor-position springs.
const CursorHalfLife = 0.05

const (
	pregateDisplacementPx = 2.0
	pregateVelocityPxPerS = 50.0
)

// CursorSample is one raw cursor observation.
type CursorSample struct {
	T    float64 // milliseconds
	X, Y float64
}

// SmoothCursor implements spec §4.6: each point is passed through a pair of
// independent critically damped springs (half-life 0.05s) using the real
// inter-sample dt. Before that, a sub-threshold displacement (< 2px) *and*
// velocity (< 50px/s) relative to the last point that passed the gate is
// pre-gated: the raw point is replaced with that point, so tremor doesn't
// perturb the spring at all rather than just being damped by it.
func SmoothCursor(samples []CursorSample) []jobtype.Point {
	if len(samples) == 0 {
		return nil
	}

	out := make([]jobtype.Point, len(samples))
	var springX, springY spring.Spring
	springX.Snap(samples[0].X)
	springY.Snap(samples[0].Y)
	out[0] = jobtype.Point{X: samples[0].X, Y: samples[0].Y}

	prevRaw := jobtype.Point{X: samples[0].X, Y: samples[0].Y}
	prevT := samples[0].T

	for i := 1; i < len(samples); i++ {
		s := samples[i]
		raw := jobtype.Point{X: s.X, Y: s.Y}
		dtMs := s.T - prevT
		if dtMs < 0 {
			dtMs = 0
		}
		dt := dtMs / 1000

		d := jobtype.Distance(raw, prevRaw)
		v := 0.0
		if dt > 0 {
			v = d / dt
		}
		if d < pregateDisplacementPx && v < pregateVelocityPxPerS {
			raw = prevRaw
		}

		springX.Target = raw.X
		springY.Target = raw.Y
		springX.Update(CursorHalfLife, dt)
		springY.Update(CursorHalfLife, dt)

		out[i] = jobtype.Point{X: springX.Position, Y: springY.Position}
		prevRaw = raw
		prevT = s.T
	}

	return out
}
