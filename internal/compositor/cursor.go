package compositor

import (
	"image"
	"image/color"
	"math"
)

// cursorBaseSizePx is the synthetic cursor's size at zoom level 1.0.
const cursorBaseSizePx = 22.0

// drawCursor renders a filled arrow polygon over a translucent offset
// shadow, hotspot at (x, y) in content pixels, scaled by zoom so its
// apparent on-screen size stays constant as the viewport zooms in (spec
// §4.7 step 2). This is the synthetic fallback; OS cursor bitmap retrieval
// is out of scope for an offline frame compositor with no OS hook.
func drawCursor(dst *image.RGBA, x, y, zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	size := cursorBaseSizePx * zoom
	tip := [2]float64{x, y}

	// Arrow silhouette: a narrow kite shape pointing up-left, described as
	// polygon vertices relative to the tip and filled by even-odd ray casting.
	points := []struct{ dx, dy float64 }{
		{0, 0},
		{0, size},
		{size * 0.35, size * 0.75},
		{size * 0.55, size},
	}
	poly := make([][2]float64, len(points))
	for i, p := range points {
		poly[i] = [2]float64{tip[0] + p.dx, tip[1] + p.dy}
	}

	bounds := image.Rect(
		int(math.Floor(tip[0]-size)), int(math.Floor(tip[1]-size)),
		int(math.Ceil(tip[0]+size*1.5)), int(math.Ceil(tip[1]+size*1.5)),
	).Intersect(dst.Bounds())

	shadowOffset := size * 0.08
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			pt := [2]float64{float64(px) + 0.5, float64(py) + 0.5}

			if insidePolygon(poly, [2]float64{pt[0] - shadowOffset, pt[1] - shadowOffset}) {
				blendPixel(dst, px, py, color.RGBA{A: 90})
			}
			if insidePolygon(poly, pt) {
				blendPixel(dst, px, py, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
}

// insidePolygon reports whether p lies inside the closed polygon, using the
// standard even-odd ray casting rule.
func insidePolygon(poly [][2]float64, p [2]float64) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if (yi > p[1]) != (yj > p[1]) {
			xIntersect := xi + (p[1]-yi)/(yj-yi)*(xj-xi)
			if p[0] < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// blendPixel alpha-composites src over the pixel at (x, y), skipping
// out-of-bounds coordinates.
func blendPixel(dst *image.RGBA, x, y int, src color.RGBA) {
	if x < 0 || y < 0 || x >= dst.Bounds().Dx() || y >= dst.Bounds().Dy() {
		return
	}
	dst.Set(x, y, blendOver(dst.RGBAAt(x, y), src))
}

// blendOver composites src over dst using straight (non-premultiplied)
// alpha, since the compositor's intermediate buffers are treated as
// straight-alpha RGBA throughout.
func blendOver(dst, src color.RGBA) color.RGBA {
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	outA := sa + da*(1-sa)
	if outA == 0 {
		return color.RGBA{}
	}
	mix := func(s, d uint8) uint8 {
		return uint8((float64(s)*sa + float64(d)*da*(1-sa)) / outA)
	}
	return color.RGBA{R: mix(src.R, dst.R), G: mix(src.G, dst.G), B: mix(src.B, dst.B), A: uint8(outA * 255)}
}
