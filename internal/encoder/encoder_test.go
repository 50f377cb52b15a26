package encoder

import (
	"bytes"
	"image"
	"testing"
)

func TestEncodeBMPHeaderFields(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	var buf bytes.Buffer
	if err := encodeBMP(&buf, img); err != nil {
		t.Fatalf("encodeBMP: %v", err)
	}
	data := buf.Bytes()
	if data[0] != 'B' || data[1] != 'M' {
		t.Fatalf("expected BM magic, got %v", data[:2])
	}
	wantSize := 14 + 40 + 4*4*3
	if len(data) != wantSize {
		t.Errorf("expected %d bytes, got %d", wantSize, len(data))
	}
}

func TestWriteRawRGBAStandardStride(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, img); err != nil {
		t.Fatalf("writeRawRGBA: %v", err)
	}
	if buf.Len() != len(img.Pix) {
		t.Errorf("expected %d bytes written, got %d", len(img.Pix), buf.Len())
	}
}

func TestBuildArgsRawVideo(t *testing.T) {
	e := New(Options{Width: 100, Height: 50, FPS: 30, PixelFormat: PixelFormatRGBA, Codec: "libx264", Quality: 23, OutputPath: "out.mp4"})
	args := e.buildArgs()
	found := false
	for i, a := range args {
		if a == "-video_size" && i+1 < len(args) && args[i+1] == "100x50" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected -video_size 100x50 in args, got %v", args)
	}
}

func TestBuildArgsBMPPipe(t *testing.T) {
	e := New(Options{Width: 100, Height: 50, FPS: 30, PixelFormat: PixelFormatBMP, Codec: "libx264", Quality: 23, OutputPath: "out.mp4"})
	args := e.buildArgs()
	if args[2] != "bmp_pipe" {
		t.Errorf("expected bmp_pipe format, got %v", args)
	}
}
