// Package encoder streams finished frames to an external FFmpeg process
// over its stdin pipe, adapting the teacher's video.FFmpegEncoder — which
// ran FFmpeg once per rendered page with an FFmpeg-side zoompan filter —
// into a single continuous stream of already-composited frames with no
// per-frame filter graph, since the compositor now does that work in Go.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// PixelFormat selects the wire format frames are written in. RGBA is the
// default: no per-frame encoding cost. BMP is offered for FFmpeg builds
// whose rawvideo demuxer mishandles odd stride/size combinations more
// often than its bmp_pipe demuxer does.
type PixelFormat string

const (
	PixelFormatRGBA PixelFormat = "rgba"
	PixelFormatBMP  PixelFormat = "bmp"
)

// Options configures one encoding run.
type Options struct {
	Width, Height int
	FPS           int
	PixelFormat   PixelFormat
	Codec         string // e.g. "libx264", "h264_videotoolbox", "h264_nvenc"
	Quality       int
	OutputPath    string
}

// FFmpegEncoder streams raw frames to an `ffmpeg` subprocess over stdin and
// waits for it to finish writing OutputPath.
type FFmpegEncoder struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

// New returns an encoder for the given options. Start must be called
// before WriteFrame.
func New(opts Options) *FFmpegEncoder {
	return &FFmpegEncoder{opts: opts}
}

// Start launches the ffmpeg subprocess and opens its stdin pipe.
func (e *FFmpegEncoder) Start(ctx context.Context) error {
	args := e.buildArgs()
	e.cmd = exec.CommandContext(ctx, "ffmpeg", args...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return jobtype.Wrap(jobtype.EncoderFailure, "ffmpeg stdin pipe", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return jobtype.Wrap(jobtype.EncoderFailure, "ffmpeg start", err)
	}
	return nil
}

func (e *FFmpegEncoder) buildArgs() []string {
	format := "rawvideo"
	pixFmt := "rgba"
	if e.opts.PixelFormat == PixelFormatBMP {
		format = "bmp_pipe"
	}

	args := []string{"-y", "-f", format}
	if format == "rawvideo" {
		args = append(args, "-pixel_format", pixFmt, "-video_size", fmt.Sprintf("%dx%d", e.opts.Width, e.opts.Height))
	}
	args = append(args,
		"-framerate", fmt.Sprintf("%d", e.opts.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", e.opts.Codec,
	)
	args = append(args, qualityArgs(e.opts.Codec, e.opts.Quality)...)
	args = append(args, e.opts.OutputPath)
	return args
}

func qualityArgs(codec string, quality int) []string {
	switch codec {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// WriteFrame writes one composited frame in the negotiated pixel format.
// Back-pressure from the pipe buffer blocks this call naturally; cancel
// ctx to have the caller abort between frames (spec §5).
func (e *FFmpegEncoder) WriteFrame(img *image.RGBA) error {
	var err error
	switch e.opts.PixelFormat {
	case PixelFormatBMP:
		err = encodeBMP(e.stdin, img)
	default:
		err = writeRawRGBA(e.stdin, img)
	}
	if err != nil {
		return jobtype.Wrap(jobtype.EncoderFailure, "write frame", err)
	}
	return nil
}

// Close closes the encoder's stdin and waits for ffmpeg to exit. Call this
// even on the cancellation path so the subprocess is reaped.
func (e *FFmpegEncoder) Close() error {
	if e.stdin != nil {
		e.stdin.Close()
	}
	if e.cmd == nil {
		return nil
	}
	if err := e.cmd.Wait(); err != nil {
		return jobtype.Wrap(jobtype.EncoderFailure, "ffmpeg exit", fmt.Errorf("%w: %s", err, e.stderr.String()))
	}
	return nil
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride == bounds.Dx()*4 && bounds.Min.X == 0 && bounds.Min.Y == 0 {
		_, err := w.Write(img.Pix)
		return err
	}
	// Non-standard stride/origin: copy row by row instead of allocating a
	// whole second image like the teacher's writeRawRGBA did.
	row := make([]byte, bounds.Dx()*4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		start := img.PixOffset(bounds.Min.X, y)
		copy(row, img.Pix[start:start+len(row)])
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
