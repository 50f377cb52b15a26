// Package orchestrator drives one post-production job end to end: it loads
// the recording's artifacts, runs event preprocessing, scene splitting,
// zoom planning and cursor smoothing, sweeps the viewport's springs
// frame-by-frame to materialize the camera trajectory, then composites and
// encodes every frame in order. It plays the role the teacher's
// engine.VideoProject.Run played, generalized from a render-pool/encode-pool
// pair over PDF pages to a single frame pipeline driven by a spring-based
// camera instead of per-page FFmpeg filters.
package orchestrator

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zoomreel/zoomreel/internal/analyzer"
	"github.com/zoomreel/zoomreel/internal/compositor"
	"github.com/zoomreel/zoomreel/internal/director"
	"github.com/zoomreel/zoomreel/internal/encoder"
	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/framediff"
	"github.com/zoomreel/zoomreel/internal/jobtype"
	"github.com/zoomreel/zoomreel/internal/preprocess"
	"github.com/zoomreel/zoomreel/internal/source"
	"github.com/zoomreel/zoomreel/internal/system"
	"github.com/zoomreel/zoomreel/internal/viewport"
)

// Job describes one post-production run.
type Job struct {
	RecordingDir string
	OutputPath   string
	Settings     jobtype.Settings

	// OutputWidth/Height default to the recording's own dimensions when zero.
	OutputWidth  int
	OutputHeight int

	Codec       string
	Quality     int
	PixelFormat encoder.PixelFormat

	// Workers caps the compositor pool; RecommendedWorkerCount() is used
	// when zero.
	Workers int

	// Progress, if non-nil, receives a best-effort stream of updates. The
	// orchestrator never blocks waiting for a slow reader: sends are
	// non-blocking, matching the teacher's "progress is advisory" stance.
	Progress chan<- jobtype.Progress
}

// Result summarizes a completed job.
type Result struct {
	OutputPath string
	FrameCount int
	Elapsed    time.Duration
}

// frameChunk bounds how many composited frames are held in memory between
// encoder writes, so a long recording doesn't force the whole clip to live
// as decoded RGBA at once.
const frameChunk = 64

// Run executes a job to completion or returns a *jobtype.Error. ctx
// cancellation is cooperative: checked between frames and between
// pre-computation stages, closing the encoder's stdin before returning
// jobtype.Cancelled.
func Run(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()

	meta, err := events.LoadMeta(job.RecordingDir)
	if err != nil {
		return nil, err
	}
	frameCount, err := events.LoadFrameCount(job.RecordingDir)
	if err != nil {
		return nil, err
	}
	screenW, screenH := float64(meta.ScreenWidth), float64(meta.ScreenHeight)

	outW, outH := job.OutputWidth, job.OutputHeight
	if outW <= 0 {
		outW = meta.ScreenWidth
	}
	if outH <= 0 {
		outH = meta.ScreenHeight
	}

	rawEvents, err := events.LoadEvents(job.RecordingDir)
	if err != nil {
		return nil, err
	}
	windowEvents, err := events.LoadWindowEvents(job.RecordingDir)
	if err != nil {
		return nil, err
	}
	merged := events.MergeWindowEvents(rawEvents, windowEvents)

	// Two independent precomputation chains: (a) scene/keyframe planning
	// and (b) cursor smoothing. Neither reads the other's output, so they
	// run concurrently, mirroring the teacher's render/encode pool split
	// — except here it's two pure-function passes, not two I/O pools.
	var keyframes []director.Keyframe
	var smoothedCursor []jobtype.Point
	var cursorSamples []CursorSample

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if gctx.Err() != nil {
			return gctx.Err()
		}
		kfs, err := planKeyframes(gctx, job.Settings, merged, screenW, screenH, meta.DurationMs, job.RecordingDir, frameCount)
		if err != nil {
			return err
		}
		keyframes = kfs
		return nil
	})
	g.Go(func() error {
		if !job.Settings.CursorSmoothing {
			return nil
		}
		cursorSamples = buildCursorSamples(merged)
		vsamples := make([]viewport.CursorSample, len(cursorSamples))
		for i, s := range cursorSamples {
			vsamples[i] = viewport.CursorSample{T: s.T, X: s.X, Y: s.Y}
		}
		smoothedCursor = viewport.SmoothCursor(vsamples)
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, jobtype.Wrap(jobtype.Cancelled, "precomputation", ctx.Err())
		}
		return nil, err
	}

	cursor := newCursorLookup(cursorSamples, smoothedCursor)
	clickEvents := filterClicks(merged)
	badgeEvents := filterBadgeWorthy(merged)

	// The spring sweep is single-threaded by construction: each frame's
	// camera state depends on the previous one's integrated velocity, per
	// spec §5's "single-threaded, deterministic" requirement.
	vp := viewport.New(keyframes, screenW, screenH)
	trajectory := make([]jobtype.Rect, frameCount)
	zoomAt := make([]float64, frameCount)
	frameTimes := make([]float64, frameCount)
	for i := 0; i < frameCount; i++ {
		t := events.FrameTimestamp(i, frameCount, meta.DurationMs)
		frameTimes[i] = t
		trajectory[i] = vp.Advance(t)
		zoomAt[i] = vp.State().Zoom
	}

	src := source.New(job.RecordingDir, frameCount)
	comp := compositor.New(outW, outH, job.Settings)

	enc := encoder.New(encoder.Options{
		Width:       outW,
		Height:      outH,
		FPS:         meta.FPS,
		PixelFormat: job.PixelFormat,
		Codec:       job.Codec,
		Quality:     job.Quality,
		OutputPath:  job.OutputPath,
	})
	if err := enc.Start(ctx); err != nil {
		return nil, err
	}

	workers := job.Workers
	if workers <= 0 {
		n, werr := system.RecommendedWorkerCount()
		if werr != nil {
			log.Printf("[!] worker count detection failed, defaulting to 1: %v", werr)
			n = 1
		}
		workers = n
	}

	for chunkStart := 0; chunkStart < frameCount; chunkStart += frameChunk {
		if ctx.Err() != nil {
			enc.Close()
			return nil, jobtype.Wrap(jobtype.Cancelled, "compositing", ctx.Err())
		}
		chunkEnd := chunkStart + frameChunk
		if chunkEnd > frameCount {
			chunkEnd = frameCount
		}
		frames, err := compositeChunk(chunkParams{
			comp: comp, src: src, from: chunkStart, to: chunkEnd,
			trajectory: trajectory, zoomAt: zoomAt, frameTimes: frameTimes,
			cursor: cursor, clicks: clickEvents, badges: badgeEvents,
			settings: job.Settings, workers: workers,
		})
		if err != nil {
			enc.Close()
			return nil, err
		}
		for _, frame := range frames {
			if ctx.Err() != nil {
				enc.Close()
				return nil, jobtype.Wrap(jobtype.Cancelled, "encoding", ctx.Err())
			}
			if err := enc.WriteFrame(frame); err != nil {
				enc.Close()
				return nil, err
			}
		}
		publishProgress(job.Progress, jobtype.StageComposing, float64(chunkEnd)/float64(frameCount), job.OutputPath)
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}
	publishProgress(job.Progress, jobtype.StageComplete, 1.0, job.OutputPath)

	return &Result{OutputPath: job.OutputPath, FrameCount: frameCount, Elapsed: time.Since(start)}, nil
}

// chunkParams bundles the read-only inputs compositeChunk's workers share;
// every field is either immutable or indexed disjointly per frame, so no
// further synchronization is needed across goroutines.
type chunkParams struct {
	comp       *compositor.Compositor
	src        *source.FrameSource
	from, to   int
	trajectory []jobtype.Rect
	zoomAt     []float64
	frameTimes []float64
	cursor     cursorLookup
	clicks     []events.Event
	badges     []events.Event
	settings   jobtype.Settings
	workers    int
}

// compositeChunk renders frames [from, to) using a bounded worker pool —
// safe once the trajectory array is materialized, since each frame's inputs
// are read-only lookups rather than shared mutable state — and returns them
// in frame order so the caller can stream them to the encoder sequentially.
// This generalizes the teacher's jobs-channel/render-pool pattern from
// PDF pages to frame indices, with the per-frame result written straight
// into its own slot rather than funneled through a results channel, since
// the slot count is known up front.
func compositeChunk(p chunkParams) ([]*image.RGBA, error) {
	n := p.to - p.from
	out := make([]*image.RGBA, n)

	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	indices := make(chan int, n)
	for i := p.from; i < p.to; i++ {
		indices <- i
	}
	close(indices)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indices {
				frame, err := renderFrame(p, i)
				if err != nil {
					return err
				}
				out[i-p.from] = frame
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// renderFrame loads frame i's source image and composites it against the
// precomputed camera and overlay state at that frame's timestamp. A missing
// source frame is job-fatal per spec §4.7; every other per-frame failure
// would be recovered locally inside the compositor itself.
func renderFrame(p chunkParams, i int) (*image.RGBA, error) {
	img, err := p.src.LoadFrame(i)
	if err != nil {
		return nil, err
	}

	t := p.frameTimes[i]
	cursorPt, cursorValid := p.cursor.At(t)
	if !p.settings.CursorSmoothing {
		cursorValid = false
	}

	var clicks []compositor.ActiveClick
	if p.settings.ClickRingEnabled {
		clicks = activeClicksAt(p.clicks, t, p.settings.RingDurationMs)
	}
	var badge *compositor.ActiveBadge
	if p.settings.KeyBadgeEnabled {
		badge = activeBadgeAt(p.badges, t, p.settings.BadgeDurationMs)
	}

	out, err := p.comp.Render(compositor.Inputs{
		Source:      img,
		Crop:        p.trajectory[i],
		Zoom:        p.zoomAt[i],
		Cursor:      cursorPt,
		CursorValid: cursorValid,
		Clicks:      clicks,
		Badge:       badge,
	})
	if err != nil {
		return nil, jobtype.Wrap(jobtype.Internal, fmt.Sprintf("compositing frame %d", i), err)
	}
	return out, nil
}

// PlanKeyframes runs just the scene-splitting and zoom-planning stages
// against a recording directory, without compositing or encoding — used by
// the CLI's -dump-keyframes flag to inspect or hand-tune the camera path
// before committing to a full render.
func PlanKeyframes(recordingDir string, settings jobtype.Settings) ([]director.Keyframe, error) {
	meta, err := events.LoadMeta(recordingDir)
	if err != nil {
		return nil, err
	}
	rawEvents, err := events.LoadEvents(recordingDir)
	if err != nil {
		return nil, err
	}
	windowEvents, err := events.LoadWindowEvents(recordingDir)
	if err != nil {
		return nil, err
	}
	merged := events.MergeWindowEvents(rawEvents, windowEvents)
	frameCount, err := events.LoadFrameCount(recordingDir)
	if err != nil {
		return nil, err
	}
	return planKeyframes(context.Background(), settings, merged, float64(meta.ScreenWidth), float64(meta.ScreenHeight), meta.DurationMs, recordingDir, frameCount)
}

// planKeyframes loads an externally-supplied keyframe list when configured,
// otherwise derives one from the event stream via scene splitting and
// zoom planning (spec §4.3-§4.4). Frame differencing is an enhancement,
// not a hard dependency: a failure there is logged and planning proceeds
// with no change regions, the same fallback stance taken for a failed
// system.RecommendedWorkerCount() detection.
func planKeyframes(ctx context.Context, settings jobtype.Settings, merged []events.Event, screenW, screenH, durationMs float64, recordingDir string, frameCount int) ([]director.Keyframe, error) {
	if settings.KeyframesOverridePath != "" {
		return director.ReadKeyframes(settings.KeyframesOverridePath)
	}
	decimated, _ := preprocess.Preprocess(merged, preprocess.DefaultConfig())
	points := analyzer.ExtractActivityPoints(decimated)
	scenes := analyzer.Split(points, screenW, screenH, settings.MaxZoom)

	var changeRegions []framediff.ChangeRegion
	if settings.FrameDiffEnabled {
		samples := buildCursorSamples(merged)
		fdSamples := make([]framediff.CursorSample, len(samples))
		for i, s := range samples {
			fdSamples[i] = framediff.CursorSample{T: s.T, X: s.X, Y: s.Y}
		}
		regions, err := framediff.Detect(ctx, recordingDir, frameCount, durationMs, fdSamples, screenW, screenH, framediff.DefaultConfig())
		if err != nil {
			log.Printf("[!] frame differencing failed, idle zoom-out will ignore screen activity: %v", err)
		} else {
			changeRegions = regions
		}
	}

	d := director.NewDirector(screenW, screenH, settings)
	return d.Plan(scenes, durationMs, settings.AutoZoomEnabled, changeRegions), nil
}

// publishProgress sends a best-effort progress update; a full or nil
// channel never blocks the pipeline.
func publishProgress(ch chan<- jobtype.Progress, stage jobtype.Stage, fraction float64, outputPath string) {
	if ch == nil {
		return
	}
	select {
	case ch <- jobtype.Progress{Stage: stage, Fraction: fraction, OutputPath: outputPath}:
	default:
	}
}
