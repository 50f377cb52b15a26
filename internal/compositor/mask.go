package compositor

import (
	"image"
	"image/color"
	"math"
)

// applyRoundedCornerMask implements spec §4.7 step 5: a rounded-rectangle
// alpha mask with sub-pixel antialiasing, alpha = clamp(1 -
// distance_outside_radius, 0, 1).
func applyRoundedCornerMask(img *image.RGBA, radius float64) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	rect := [4]float64{float64(b.Min.X), float64(b.Min.Y), float64(b.Max.X), float64(b.Max.Y)}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := distanceOutsideRoundedRect([2]float64{float64(x) + 0.5, float64(y) + 0.5}, rect, radius)
			if d <= 0 {
				continue
			}
			a := clamp01(1 - d)
			if a >= 1 {
				continue
			}
			c := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * a)})
		}
	}
}

// shadowBlurRadiusPx and shadowOffsetPx tune the Gaussian-approximated drop
// shadow (spec §4.7 step 6): a soft, slightly offset dark halo behind the
// rounded content rectangle.
const (
	shadowBlurRadiusPx = 18.0
	shadowOffsetYPx    = 6.0
	shadowMaxAlpha     = 120.0
)

// renderShadow precomputes a shadow layer for a content rectangle of the
// given size and corner radius. Composited once per frame beneath the
// content, same size as the output so no per-frame positioning math is
// needed.
func renderShadow(width, height int, radius float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rect := [4]float64{0, shadowOffsetYPx, float64(width), float64(height) + shadowOffsetYPx}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := distanceOutsideRoundedRect([2]float64{float64(x) + 0.5, float64(y) + 0.5}, rect, radius)
			if d > shadowBlurRadiusPx {
				continue
			}
			// Gaussian-approximated falloff: full alpha inside the shape,
			// decaying smoothly across the blur radius outside it.
			falloff := math.Exp(-math.Max(d, 0) * math.Max(d, 0) / (2 * (shadowBlurRadiusPx / 2) * (shadowBlurRadiusPx / 2)))
			a := uint8(shadowMaxAlpha * falloff)
			if a == 0 {
				continue
			}
			img.SetRGBA(x, y, color.RGBA{A: a})
		}
	}
	return img
}
