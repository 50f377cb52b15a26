package jobtype

import "math"

// Point is a 2D location in source-screen pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box in source-screen pixels, kept as
// floating-point so padding and zoom-derived sizes don't round early. The
// teacher's director.Rectangle plays the same role with integer fields; this
// system needs sub-pixel precision for the spring-driven viewport.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies within r (inclusive of edges).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Pad grows r by margin on every side.
func (r Rect) Pad(margin float64) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Area returns width*height; zero for degenerate rects.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// ClampWithin constrains r's size to the screen and its origin so it never
// extends past the screen bounds, matching the viewport-bound invariant.
func (r Rect) ClampWithin(screenW, screenH float64) Rect {
	w := r.W
	h := r.H
	if w > screenW {
		w = screenW
	}
	if h > screenH {
		h = screenH
	}
	x := Clamp(r.X, 0, screenW-w)
	y := Clamp(r.Y, 0, screenH-h)
	return Rect{X: x, Y: y, W: w, H: h}
}

// CornersClose reports whether two rects' corners all agree within tol
// pixels — used by the scene splitter to treat minor window-chrome jitter
// as "the same window".
func CornersClose(a, b Rect, tol float64) bool {
	return absf(a.X-b.X) <= tol && absf(a.Y-b.Y) <= tol &&
		absf((a.X+a.W)-(b.X+b.W)) <= tol && absf((a.Y+a.H)-(b.Y+b.H)) <= tol
}

// Clamp restricts v to [lo, hi]. If lo > hi, the midpoint collapse is
// avoided by returning lo (a degenerate viewport is still well-defined).
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func absf(v float64) float64 {
	return math.Abs(v)
}
