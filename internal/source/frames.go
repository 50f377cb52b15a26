// Package source reads the recording subsystem's per-frame PNG artifacts
// in timestamp order, adapting the teacher's ImageSource (which read a
// directory of arbitrarily-named images for PDF rendering) into a fixed
// frame_%08d.png naming convention with a known, externally-supplied count.
package source

import (
	"image"
	_ "image/png"
	"os"

	"github.com/zoomreel/zoomreel/internal/events"
	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// FrameSource reads recorded frames by 0-based index.
type FrameSource struct {
	recordingDir string
	frameCount   int
}

// New returns a FrameSource over recordingDir's frames/ subdirectory.
// frameCount is trusted from frame_count.txt (spec §7: loaded once,
// up front, and fatal if missing).
func New(recordingDir string, frameCount int) *FrameSource {
	return &FrameSource{recordingDir: recordingDir, frameCount: frameCount}
}

// FrameCount returns the total number of frames.
func (s *FrameSource) FrameCount() int {
	return s.frameCount
}

// LoadFrame decodes frame i (0-based). A missing or corrupt frame file is
// job-fatal per spec §4.7 ("a missing source frame fails the job").
func (s *FrameSource) LoadFrame(i int) (image.Image, error) {
	path := events.FramePath(s.recordingDir, i)
	f, err := os.Open(path)
	if err != nil {
		return nil, jobtype.Wrap(jobtype.AssetMissing, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, jobtype.Wrap(jobtype.InputInvalid, path, err)
	}
	return img, nil
}
