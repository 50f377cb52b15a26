// Package framediff detects screen regions that changed visually between
// sampled frame pairs, independent of recorded input events. The zoom
// planner uses it to avoid springing out to the overview during a gap with
// no mouse/keyboard activity but active on-screen motion (a video playing,
// a progress bar animating) — an idle gap in the event stream isn't
// necessarily an idle screen.
package framediff

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
	"github.com/zoomreel/zoomreel/internal/system"
)

// Config tunes the sampling grid and the thresholds that separate real
// on-screen motion from noise, cursor movement, or a full scene cut.
type Config struct {
	// SampleInterval is the frame stride between compared pairs: frame i
	// is compared against frame i+SampleInterval.
	SampleInterval int
	// DownsampleFactor shrinks each frame before diffing, trading pixel
	// precision for throughput on long recordings.
	DownsampleFactor int
	// PixelThreshold is the minimum per-channel grayscale delta that
	// counts a pixel as changed.
	PixelThreshold int
	// CursorExcludeRadius masks a disc around each frame's cursor
	// position (in full-resolution screen pixels) so the moving pointer itself
	// never registers as screen activity.
	CursorExcludeRadius float64
	// MinRegionSize discards a changed bounding box smaller than this on
	// both dimensions (downsampled pixels) as noise.
	MinRegionSize int
	// MaxChangeFraction discards a pair whose changed-pixel fraction
	// exceeds this, since a full-frame change is a scene cut, not
	// localized motion the idle gate should care about.
	MaxChangeFraction float64
}

// DefaultConfig mirrors the original engine's tuned defaults.
func DefaultConfig() Config {
	return Config{
		SampleInterval:      5,
		DownsampleFactor:    4,
		PixelThreshold:      10,
		CursorExcludeRadius: 50,
		MinRegionSize:       50,
		MaxChangeFraction:   0.5,
	}
}

// CursorSample is one recorded cursor position, used to mask the pointer
// out of the diff so its own movement never registers as screen activity.
type CursorSample struct {
	T    float64
	X, Y float64
}

// ChangeRegion is one detected pocket of visual motion between a sampled
// frame pair, in full-resolution screen coordinates.
type ChangeRegion struct {
	TimeMs            float64
	BBox              jobtype.Rect
	ChangedPixelCount int
}

// HasChangesInWindow reports whether any detected region falls strictly
// inside (fromMs, toMs) — the idle-gate predicate: a gap with a screen
// change in it is not an idle gap.
func HasChangesInWindow(regions []ChangeRegion, fromMs, toMs float64) bool {
	for _, r := range regions {
		if r.TimeMs > fromMs && r.TimeMs < toMs {
			return true
		}
	}
	return false
}

// Detect samples frame pairs across the recording and returns the change
// regions found, using a bounded worker pool sized the same way the
// compositor sizes its per-frame render pool. A failure to read or decode
// any one pair is fatal: frame-differencing is only ever invoked as an
// optional enhancement by its caller, which treats any error here as
// non-fatal to the overall job.
func Detect(ctx context.Context, recordingDir string, frameCount int, durationMs float64, cursor []CursorSample, screenW, screenH float64, cfg Config) ([]ChangeRegion, error) {
	if frameCount < 2 || cfg.SampleInterval < 1 {
		return nil, nil
	}

	var sampleIdx []int
	for i := 0; i+cfg.SampleInterval < frameCount; i += cfg.SampleInterval {
		sampleIdx = append(sampleIdx, i)
	}
	if len(sampleIdx) == 0 {
		return nil, nil
	}

	frameStepMs := durationMs / float64(frameCount)
	if frameStepMs <= 0 {
		frameStepMs = 33
	}

	workers, err := system.RecommendedWorkerCount()
	if err != nil || workers < 1 {
		workers = 4
	}
	if workers > len(sampleIdx) {
		workers = len(sampleIdx)
	}

	results := make([]*ChangeRegion, len(sampleIdx))
	jobs := make(chan int, len(sampleIdx))
	for j := range sampleIdx {
		jobs <- j
	}
	close(jobs)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				i := sampleIdx[j]
				region, err := diffPair(recordingDir, i, i+cfg.SampleInterval, frameStepMs, cursor, screenW, screenH, cfg)
				if err != nil {
					return err
				}
				results[j] = region
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("framediff: %w", err)
	}

	var out []ChangeRegion
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// diffPair compares frames a and b (full resolution, decoded and
// downsampled) and returns the detected change region, or nil if the pair
// shows no qualifying change.
func diffPair(recordingDir string, a, b int, frameStepMs float64, cursor []CursorSample, screenW, screenH float64, cfg Config) (*ChangeRegion, error) {
	imgA, err := loadFrame(recordingDir, a)
	if err != nil {
		return nil, err
	}
	imgB, err := loadFrame(recordingDir, b)
	if err != nil {
		return nil, err
	}

	factor := cfg.DownsampleFactor
	if factor < 1 {
		factor = 1
	}
	bounds := imgA.Bounds()
	dw, dh := bounds.Dx()/factor, bounds.Dy()/factor
	if dw < 1 || dh < 1 {
		return nil, nil
	}
	grayA := downsampleGray(imgA, dw, dh)
	grayB := downsampleGray(imgB, dw, dh)

	timeA := float64(a) * frameStepMs
	timeB := float64(b) * frameStepMs
	cxA, cyA := nearestCursor(cursor, timeA)
	cxB, cyB := nearestCursor(cursor, timeB)

	minX, minY, maxX, maxY := dw, dh, -1, -1
	changed := 0
	total := dw * dh
	r2 := (cfg.CursorExcludeRadius / float64(factor)) * (cfg.CursorExcludeRadius / float64(factor))

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if nearCursor(x, y, cxA, cyA, factor, r2) || nearCursor(x, y, cxB, cyB, factor, r2) {
				continue
			}
			idx := y*dw + x
			delta := int(grayA[idx]) - int(grayB[idx])
			if delta < 0 {
				delta = -delta
			}
			if delta < cfg.PixelThreshold {
				continue
			}
			changed++
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x > maxX {
				maxX = x
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if changed == 0 || maxX < minX {
		return nil, nil
	}
	if total > 0 && float64(changed)/float64(total) > cfg.MaxChangeFraction {
		return nil, nil
	}
	if (maxX-minX) < cfg.MinRegionSize && (maxY-minY) < cfg.MinRegionSize {
		return nil, nil
	}

	bbox := jobtype.Rect{
		X: float64(minX * factor),
		Y: float64(minY * factor),
		W: float64((maxX - minX + 1) * factor),
		H: float64((maxY - minY + 1) * factor),
	}.ClampWithin(screenW, screenH)

	return &ChangeRegion{
		TimeMs:            timeA,
		BBox:              bbox,
		ChangedPixelCount: changed * factor * factor,
	}, nil
}

func nearCursor(x, y int, cx, cy float64, factor int, r2 float64) bool {
	if cx < 0 {
		return false
	}
	dx := float64(x) - cx/float64(factor)
	dy := float64(y) - cy/float64(factor)
	return dx*dx+dy*dy <= r2
}

// nearestCursor returns the recorded cursor position closest in time to
// timeMs, or (-1, -1) if no samples exist, which disables masking for that
// frame rather than masking at the origin.
func nearestCursor(samples []CursorSample, timeMs float64) (float64, float64) {
	if len(samples) == 0 {
		return -1, -1
	}
	best := samples[0]
	bestDelta := absf(best.T - timeMs)
	for _, s := range samples[1:] {
		d := absf(s.T - timeMs)
		if d < bestDelta {
			best, bestDelta = s, d
		}
	}
	return best.X, best.Y
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func loadFrame(recordingDir string, i int) (image.Image, error) {
	f, err := os.Open(events.FramePath(recordingDir, i))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// downsampleGray shrinks img to w x h via nearest-neighbor resampling —
// cheap and sufficient, since the diff only needs coarse motion, not
// photographic fidelity — and flattens it to grayscale in one pass.
func downsampleGray(img image.Image, w, h int) []uint8 {
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	gray := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(small.RGBAAt(x, y)).(color.Gray)
			gray[y*w+x] = c.Y
		}
	}
	return gray
}
