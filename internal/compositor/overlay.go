package compositor

import (
	"image"
	"image/color"
	"math"
)

const ringMaxRadiusPx = 36.0

// drawClickRing implements spec §4.7 step 3: an eased expanding stroked
// ring with a faint inner fill, fading out linearly over ring_duration_ms.
func drawClickRing(dst *image.RGBA, cx, cy, elapsedMs, durationMs float64) {
	if durationMs <= 0 {
		return
	}
	linear := elapsedMs / durationMs
	p := 1 - math.Pow(1-linear, 3)
	radius := ringMaxRadiusPx * p
	alpha := 1 - linear
	if alpha <= 0 {
		return
	}

	strokeWidth := 2.5
	bounds := image.Rect(
		int(math.Floor(cx-radius-strokeWidth)), int(math.Floor(cy-radius-strokeWidth)),
		int(math.Ceil(cx+radius+strokeWidth)), int(math.Ceil(cy+radius+strokeWidth)),
	).Intersect(dst.Bounds())

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			d := math.Sqrt(dx*dx + dy*dy)

			if d <= radius {
				blendPixel(dst, px, py, color.RGBA{A: uint8(alpha * 0.15 * 255)})
			}
			if math.Abs(d-radius) <= strokeWidth/2 {
				blendPixel(dst, px, py, color.RGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 255)})
			}
		}
	}
}

// drawKeyBadge implements spec §4.7 step 4: a rounded-rectangle label at
// output-bottom-center, fading in over the first 15% and out over the last
// 15% of badge_duration_ms.
func drawKeyBadge(dst *image.RGBA, label string, elapsedMs, durationMs float64, width, height int) {
	if durationMs <= 0 || label == "" {
		return
	}
	t := elapsedMs / durationMs
	alpha := 1.0
	switch {
	case t < 0.15:
		alpha = t / 0.15
	case t > 0.85:
		alpha = (1 - t) / 0.15
	}
	alpha = clamp01(alpha)
	if alpha <= 0 {
		return
	}

	charW := 11.0
	padX := 16.0
	badgeW := charW*float64(len(label)) + padX*2
	badgeH := 44.0
	cx := float64(width) / 2
	by := float64(height) - badgeH - 36

	rect := [4]float64{cx - badgeW/2, by, cx + badgeW/2, by + badgeH}
	radius := 10.0

	bounds := image.Rect(int(rect[0])-2, int(rect[1])-2, int(rect[2])+2, int(rect[3])+2).Intersect(dst.Bounds())
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			pt := [2]float64{float64(px) + 0.5, float64(py) + 0.5}
			if distanceOutsideRoundedRect(pt, rect, radius) <= 0 {
				blendPixel(dst, px, py, color.RGBA{A: uint8(alpha * 200)})
			}
		}
	}
	drawLabelText(dst, label, cx, by+badgeH/2, alpha)
}

// distanceOutsideRoundedRect returns how far pt lies outside the rounded
// rectangle described by rect (x0,y0,x1,y1) and corner radius; <=0 means
// inside. Shared by the badge background and the rounded-corner mask.
func distanceOutsideRoundedRect(pt [2]float64, rect [4]float64, radius float64) float64 {
	x0, y0, x1, y1 := rect[0], rect[1], rect[2], rect[3]
	inStraightX := pt[0] >= x0+radius && pt[0] <= x1-radius
	inStraightY := pt[1] >= y0+radius && pt[1] <= y1-radius

	switch {
	case inStraightX:
		if pt[1] < y0 || pt[1] > y1 {
			return math.Max(y0-pt[1], pt[1]-y1)
		}
		return -1
	case inStraightY:
		if pt[0] < x0 || pt[0] > x1 {
			return math.Max(x0-pt[0], pt[0]-x1)
		}
		return -1
	default:
		cx := math.Min(math.Max(pt[0], x0+radius), x1-radius)
		cy := math.Min(math.Max(pt[1], y0+radius), y1-radius)
		return math.Hypot(pt[0]-cx, pt[1]-cy) - radius
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// drawLabelText renders label centered at (cx, cy) using a minimal blocky
// glyph stencil. A full font rasterizer is out of scope for an offline
// compositor with no text-layout requirements beyond short badge labels.
func drawLabelText(dst *image.RGBA, label string, cx, cy, alpha float64) {
	glyphW, glyphH := 8.0, 14.0
	totalW := glyphW * float64(len(label))
	x0 := cx - totalW/2
	y0 := cy - glyphH/2

	col := color.RGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 255)}
	for i := range label {
		gx := x0 + float64(i)*glyphW
		for py := 0; py < int(glyphH); py++ {
			for px := 0; px < int(glyphW*0.7); px++ {
				if (px+py)%3 == 0 {
					blendPixel(dst, int(gx)+px, int(y0)+py, col)
				}
			}
		}
	}
}
