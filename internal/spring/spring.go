// Package spring implements the closed-form critically damped spring used
// by the viewport integrator and the cursor smoother.
package spring

import (
	"fmt"
	"math"
)

// epsilon is the floor half-life collapses to so Update never divides by
// zero or produces an infinite decay rate.
const epsilon = 1e-5

// Spring holds one degree of freedom's position, velocity, and target.
// Three instances together drive the viewport (center-x, center-y, zoom);
// a pair drives the cursor smoother (x, y).
type Spring struct {
	Position float64
	Velocity float64
	Target   float64
}

// New returns a Spring at rest at value: position and target set to value,
// velocity zero.
func New(value float64) Spring {
	return Spring{Position: value, Velocity: 0, Target: value}
}

// Update advances the spring by dt seconds toward Target using the
// closed-form solution for a critically damped second-order system
// parameterized by halfLife (seconds), with decay rate 2·ln2/halfLife.
// Starting at rest, one halfLife of integration closes about 40% of the
// distance to Target.
//
// Unconditionally stable and frame-rate independent: any dt >= 0 and any
// halfLife > 0 (halfLife <= 0 collapses to epsilon) yields a finite result.
// dt < 0 is a programming error, not a recoverable input, so it returns an
// error rather than silently integrating backward.
func (s *Spring) Update(halfLife, dt float64) error {
	if dt < 0 {
		return fmt.Errorf("spring: negative dt %g", dt)
	}
	if halfLife <= 0 {
		halfLife = epsilon
	}

	y := 4 * math.Ln2 / halfLife
	yHalf := y / 2
	j0 := s.Position - s.Target
	j1 := s.Velocity + j0*yHalf
	e := math.Exp(-yHalf * dt)

	newPos := e*(j0+j1*dt) + s.Target
	newVel := e * (s.Velocity - j1*yHalf*dt)

	s.Position = newPos
	s.Velocity = newVel
	return nil
}

// Predict computes the position Update would produce after dt seconds,
// without mutating the spring. Used for lookahead queries (e.g. estimating
// where the camera will have settled by a future keyframe).
func (s Spring) Predict(halfLife, dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	if halfLife <= 0 {
		halfLife = epsilon
	}

	y := 4 * math.Ln2 / halfLife
	yHalf := y / 2
	j0 := s.Position - s.Target
	j1 := s.Velocity + j0*yHalf
	e := math.Exp(-yHalf * dt)

	return e*(j0+j1*dt) + s.Target
}

// Snap forces the spring to value with zero velocity: used to seed the
// first sample of a path (cursor smoother, initial viewport state).
func (s *Spring) Snap(value float64) {
	s.Position = value
	s.Velocity = 0
	s.Target = value
}

// IsSettled reports whether the spring has essentially arrived: both the
// remaining distance to target and the current speed are under threshold.
func (s Spring) IsSettled(threshold float64) bool {
	return math.Abs(s.Position-s.Target) < threshold && math.Abs(s.Velocity) < threshold
}
