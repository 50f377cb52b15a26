// Package compositor renders one output frame from a source frame, the
// current viewport rect, the smoothed cursor position, and the set of
// active click rings and key badges (spec §4.7). It plays the role the
// teacher's VideoProject.writeRawRGBA and ffmpeg zoompan filter played
// together, moved from an FFmpeg filter graph into Go pixel operations so
// the viewport can be spring-driven instead of keyframe-interpolated.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/zoomreel/zoomreel/internal/jobtype"
	"github.com/zoomreel/zoomreel/internal/system"
)

// ActiveClick is a click ring still within its display window.
type ActiveClick struct {
	X, Y      float64
	ElapsedMs float64
}

// ActiveBadge is a key badge still within its display window.
type ActiveBadge struct {
	Label     string
	ElapsedMs float64
}

// Inputs bundles everything the compositor needs to render one frame,
// mirroring spec §4.7's "per frame inputs" list.
type Inputs struct {
	Source      image.Image
	Crop        jobtype.Rect
	Zoom        float64
	Cursor      jobtype.Point
	CursorValid bool
	Clicks      []ActiveClick
	Badge       *ActiveBadge
}

// Compositor renders frames at a fixed output size under fixed framing
// settings. The background canvas is built once and reused (spec §4.7 step
// 7: "generated once and cached").
type Compositor struct {
	width, height int
	settings      jobtype.Settings
	background    *image.RGBA
	contentRect   image.Rectangle
	shadow        *image.RGBA
}

// New builds a Compositor for the given output resolution and settings.
func New(width, height int, settings jobtype.Settings) *Compositor {
	c := &Compositor{width: width, height: height, settings: settings}
	c.contentRect = image.Rect(0, 0, width, height)
	c.background = renderBackground(width, height, settings.Background)
	c.shadow = renderShadow(width, height, settings.BorderRadius)
	return c
}

// Render executes the seven-step pipeline and returns a fresh RGBA frame at
// the compositor's output resolution. A nil Source is a caller error, not a
// recoverable condition — the orchestrator treats a missing source frame as
// job-fatal per spec §4.7.
func (c *Compositor) Render(in Inputs) (*image.RGBA, error) {
	content := system.GetImage(c.contentRect)

	cropAndScale(content, in.Source, in.Crop)

	if in.CursorValid {
		vx, vy := c.projectToContent(in.Cursor, in.Crop)
		drawCursor(content, vx, vy, in.Zoom)
	}

	for _, click := range in.Clicks {
		if click.ElapsedMs < 0 || click.ElapsedMs > c.settings.RingDurationMs {
			continue
		}
		vx, vy := c.projectToContent(jobtype.Point{X: click.X, Y: click.Y}, in.Crop)
		drawClickRing(content, vx, vy, click.ElapsedMs, c.settings.RingDurationMs)
	}

	if in.Badge != nil && in.Badge.ElapsedMs >= 0 && in.Badge.ElapsedMs <= c.settings.BadgeDurationMs {
		drawKeyBadge(content, in.Badge.Label, in.Badge.ElapsedMs, c.settings.BadgeDurationMs, c.width, c.height)
	}

	applyRoundedCornerMask(content, c.settings.BorderRadius)

	out := image.NewRGBA(c.contentRect)
	draw.Draw(out, out.Bounds(), c.background, image.Point{}, draw.Src)
	if c.settings.ShadowEnabled {
		draw.Draw(out, out.Bounds(), c.shadow, image.Point{}, draw.Over)
	}
	draw.Draw(out, out.Bounds(), content, image.Point{}, draw.Over)

	system.PutImage(content)
	return out, nil
}

// projectToContent maps a source-screen point through the active crop rect
// into content-pixel coordinates, scaled by the crop's effective zoom.
func (c *Compositor) projectToContent(p jobtype.Point, crop jobtype.Rect) (float64, float64) {
	if crop.W <= 0 || crop.H <= 0 {
		return 0, 0
	}
	sx := float64(c.width) / crop.W
	sy := float64(c.height) / crop.H
	return (p.X - crop.X) * sx, (p.Y - crop.Y) * sy
}

// cropAndScale implements spec §4.7 step 1: resample src's crop rect to
// dst's full bounds with a bilinear filter.
func cropAndScale(dst *image.RGBA, src image.Image, crop jobtype.Rect) {
	srcRect := image.Rect(
		int(math.Round(crop.X)), int(math.Round(crop.Y)),
		int(math.Round(crop.X+crop.W)), int(math.Round(crop.Y+crop.H)),
	)
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Over, nil)
}

// renderBackground builds the cached canvas behind the framed content,
// per spec §4.7 step 7: gradient, solid, or transparent.
func renderBackground(width, height int, bg jobtype.Background) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	switch bg.Kind {
	case jobtype.BackgroundTransparent:
		return img
	case jobtype.BackgroundGradient:
		angle := bg.AngleDeg * math.Pi / 180
		dx, dy := math.Cos(angle), math.Sin(angle)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				t := (float64(x)*dx + float64(y)*dy) / (float64(width)*math.Abs(dx) + float64(height)*math.Abs(dy) + 1e-9)
				t = jobtype.Clamp(t, 0, 1)
				img.Set(x, y, lerpColor(bg.GradientA, bg.GradientB, t))
			}
		}
	default: // solid
		c := toRGBA(bg.Solid)
		draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	return img
}

func toRGBA(c jobtype.RGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func lerpColor(a, b jobtype.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
