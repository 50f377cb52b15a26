package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/zoomreel/zoomreel/internal/director"
	"github.com/zoomreel/zoomreel/internal/encoder"
	"github.com/zoomreel/zoomreel/internal/jobtype"
	"github.com/zoomreel/zoomreel/internal/orchestrator"
	"github.com/zoomreel/zoomreel/internal/system"
)

func main() {
	system.InitResourceLimits()

	if err := os.MkdirAll("output", 0755); err != nil {
		log.Fatalf("[-] failed to create output/: %v", err)
	}

	inputPtr := flag.String("input", "", "Path to a recording directory (default: the newest one under recordings/)")
	outputPtr := flag.String("output", "", "Path to the output video (default: auto-named under output/)")
	widthPtr := flag.Int("width", 0, "Output width in pixels (default: the recording's own width)")
	heightPtr := flag.Int("height", 0, "Output height in pixels (default: the recording's own height)")
	workersPtr := flag.Int("workers", 0, "Compositor worker pool size (default: detected logical core count)")
	qualityPtr := flag.Int("quality", 0, "Encoder quality knob (0 = auto per codec)")
	pixelFormatPtr := flag.String("pixel-format", "rgba", "Frame pipe format to FFmpeg: rgba or bmp")

	maxZoomPtr := flag.Float64("max-zoom", 3.0, "Maximum zoom level the director may plan")
	speedPtr := flag.String("speed", "mellow", "Camera speed preset: slow, mellow, quick, rapid")
	zoomOutIdlePtr := flag.Float64("zoom-out-idle-ms", 5000, "Idle gap before springing out to the previous scene's window framing")
	overviewIdlePtr := flag.Float64("overview-idle-ms", 8000, "Idle gap before springing out to the full-screen overview")
	autoZoomPtr := flag.Bool("auto-zoom", true, "Plan zoom/pan keyframes from the event stream")
	clickRingPtr := flag.Bool("click-rings", true, "Draw click rings")
	keyBadgePtr := flag.Bool("key-badges", true, "Draw key-press badges")
	cursorSmoothingPtr := flag.Bool("cursor-smoothing", true, "Spring-smooth the cursor path")
	frameDiffPtr := flag.Bool("frame-diff", true, "Gate idle zoom-out on detected screen activity, not just input events")
	borderRadiusPtr := flag.Float64("border-radius", 12, "Rounded-corner radius of the framed content, in output pixels")
	shadowPtr := flag.Bool("shadow", true, "Draw a drop shadow behind the framed content")
	backgroundPtr := flag.String("background", "solid", "Canvas behind the framed content: solid, gradient, transparent")
	recordingModePtr := flag.String("recording-mode", "display", "What was captured: display, window, area")

	keyframesOverridePtr := flag.String("keyframes-override", "", "Bypass scene splitting/zoom planning and load keyframes from this YAML file")
	dumpKeyframesPtr := flag.String("dump-keyframes", "", "Plan keyframes and write them to this YAML file, then exit without rendering")
	showStatsPtr := flag.Bool("show-stats", false, "Print a frame/timing report after rendering")

	flag.Parse()

	recordingDir := *inputPtr
	if recordingDir == "" {
		latest, err := system.FindLatestRecording("recordings")
		if err != nil {
			log.Fatalf("[-] %v. Pass -input or place a recording under recordings/", err)
		}
		recordingDir = latest
		fmt.Printf("[*] Using recording: %s\n", recordingDir)
	}

	settings := jobtype.DefaultSettings()
	settings.AutoZoomEnabled = *autoZoomPtr
	settings.MaxZoom = *maxZoomPtr
	settings.AnimationSpeed = jobtype.SpeedPreset(*speedPtr)
	settings.ZoomOutIdleMs = *zoomOutIdlePtr
	settings.OverviewIdleMs = *overviewIdlePtr
	settings.ClickRingEnabled = *clickRingPtr
	settings.KeyBadgeEnabled = *keyBadgePtr
	settings.CursorSmoothing = *cursorSmoothingPtr
	settings.FrameDiffEnabled = *frameDiffPtr
	settings.BorderRadius = *borderRadiusPtr
	settings.ShadowEnabled = *shadowPtr
	settings.RecordingMode = jobtype.RecordingMode(*recordingModePtr)
	settings.KeyframesOverridePath = *keyframesOverridePtr

	switch *backgroundPtr {
	case "gradient":
		settings.Background = jobtype.Background{
			Kind:      jobtype.BackgroundGradient,
			GradientA: jobtype.RGBA{R: 30, G: 30, B: 46, A: 255},
			GradientB: jobtype.RGBA{R: 10, G: 10, B: 18, A: 255},
			AngleDeg:  45,
		}
	case "transparent":
		settings.Background = jobtype.Background{Kind: jobtype.BackgroundTransparent}
	default:
		settings.Background = jobtype.Background{Kind: jobtype.BackgroundSolid, Solid: jobtype.RGBA{R: 20, G: 20, B: 24, A: 255}}
	}

	if *dumpKeyframesPtr != "" {
		kfs, err := orchestrator.PlanKeyframes(recordingDir, settings)
		if err != nil {
			log.Fatalf("[-] keyframe planning failed: %v", err)
		}
		if err := director.WriteKeyframes(kfs, *dumpKeyframesPtr); err != nil {
			log.Fatalf("[-] failed to write keyframes: %v", err)
		}
		fmt.Printf("[+++] Wrote %d keyframes to %s\n", len(kfs), *dumpKeyframesPtr)
		return
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		baseName := filepath.Base(recordingDir)
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", baseName, timestamp))
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Hardware encoder detected: %s\n", encoderName)
	}

	quality := *qualityPtr
	if quality == 0 {
		quality = system.DefaultQualityFor(encoderName)
	}

	pixelFormat := encoder.PixelFormat(strings.ToLower(*pixelFormatPtr))
	if pixelFormat != encoder.PixelFormatRGBA && pixelFormat != encoder.PixelFormatBMP {
		log.Fatalf("[-] unknown -pixel-format %q (want rgba or bmp)", *pixelFormatPtr)
	}

	workers := *workersPtr
	if workers <= 0 {
		if n, err := system.RecommendedWorkerCount(); err == nil {
			workers = n
		} else {
			workers = runtime.NumCPU()
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	progress := make(chan jobtype.Progress, 8)
	go func() {
		for p := range progress {
			fmt.Printf("\r[*] %s: %5.1f%%", p.Stage, p.Fraction*100)
		}
		fmt.Println()
	}()

	job := orchestrator.Job{
		RecordingDir: recordingDir,
		OutputPath:   finalOutput,
		Settings:     settings,
		OutputWidth:  *widthPtr,
		OutputHeight: *heightPtr,
		Codec:        encoderName,
		Quality:      quality,
		PixelFormat:  pixelFormat,
		Workers:      workers,
		Progress:     progress,
	}

	result, err := orchestrator.Run(ctx, job)
	close(progress)
	if err != nil {
		log.Fatalf("[-] render failed: %v", err)
	}

	fmt.Printf("[+++] Done: %s\n", result.OutputPath)
	if *showStatsPtr {
		fps := float64(result.FrameCount) / result.Elapsed.Seconds()
		line := fmt.Sprintf("%s\t%s\t%d frames\t%s\t%.1f fps\n",
			time.Now().Format(time.RFC3339), result.OutputPath, result.FrameCount, result.Elapsed.Round(time.Millisecond), fps)
		fmt.Printf("[*] %d frames in %s (%.1f fps average)\n", result.FrameCount, result.Elapsed.Round(time.Millisecond), fps)
		if f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			f.WriteString(line)
			f.Close()
		} else {
			log.Printf("[!] failed to append benchmark.log: %v", err)
		}
	}
}
