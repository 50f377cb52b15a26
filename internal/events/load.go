package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/zoomreel/zoomreel/internal/jobtype"
)

// RecordingMeta mirrors meta.json (spec §6). Only the fields this engine consumes
// are modeled; unrecognized fields are ignored rather than rejected, since
// meta.json is owned by the recording subsystem and may carry fields this
// engine has no use for.
type RecordingMeta struct {
	Version      int     `json:"version"`
	ID           string  `json:"id"`
	ScreenWidth  int     `json:"screen_width"`
	ScreenHeight int     `json:"screen_height"`
	FPS          int     `json:"fps"`
	DurationMs   float64 `json:"duration_ms"`
	HasAudio     bool    `json:"has_audio"`
	RecordingDir string  `json:"recording_dir"`
}

// wireEvent is the on-disk shape of one events.jsonl line.
type wireEvent struct {
	Type      string   `json:"type"`
	T         float64  `json:"t"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Button    string   `json:"button"`
	DX        float64  `json:"dx"`
	DY        float64  `json:"dy"`
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
	Title     string   `json:"title"`
	Rect      *struct {
		X, Y, W, H float64
	} `json:"rect"`
}

// LoadMeta reads and validates meta.json. A missing or unparseable meta is
// fatal per spec §7: the job cannot proceed without screen size and duration.
func LoadMeta(recordingDir string) (RecordingMeta, error) {
	path := filepath.Join(recordingDir, "meta.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return RecordingMeta{}, jobtype.Wrap(jobtype.AssetMissing, "meta.json", err)
	}
	var m RecordingMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return RecordingMeta{}, jobtype.Wrap(jobtype.InputInvalid, "meta.json", err)
	}
	if m.ScreenWidth <= 0 || m.ScreenHeight <= 0 {
		return RecordingMeta{}, jobtype.Wrap(jobtype.InputInvalid, "meta.json", fmt.Errorf("missing or non-positive screen dimensions"))
	}
	return m, nil
}

// LoadFrameCount reads frame_count.txt. Fatal if unusable, per spec §7.
func LoadFrameCount(recordingDir string) (int, error) {
	path := filepath.Join(recordingDir, "frame_count.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, jobtype.Wrap(jobtype.AssetMissing, "frame_count.txt", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n <= 0 {
		return 0, jobtype.Wrap(jobtype.InputInvalid, "frame_count.txt", fmt.Errorf("unparseable frame count %q", string(data)))
	}
	return n, nil
}

// LoadDimensions reads dimensions.txt ("WxH"). Fatal if unusable.
func LoadDimensions(recordingDir string) (w, h int, err error) {
	path := filepath.Join(recordingDir, "dimensions.txt")
	data, ferr := os.ReadFile(path)
	if ferr != nil {
		return 0, 0, jobtype.Wrap(jobtype.AssetMissing, "dimensions.txt", ferr)
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, jobtype.Wrap(jobtype.InputInvalid, "dimensions.txt", fmt.Errorf("unparseable dimensions %q", string(data)))
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, jobtype.Wrap(jobtype.InputInvalid, "dimensions.txt", fmt.Errorf("unparseable dimensions %q", string(data)))
	}
	return w, h, nil
}

// LoadEvents reads events.jsonl. A malformed line is discarded and logged
// (spec §7: InputInvalid is recovered locally); the overall event list is
// still returned, sorted by timestamp, with relative order among equal
// timestamps preserved.
func LoadEvents(recordingDir string) ([]Event, error) {
	path := filepath.Join(recordingDir, "events.jsonl")
	f, err := os.Open(path)
	if err != nil {
		return nil, jobtype.Wrap(jobtype.AssetMissing, "events.jsonl", err)
	}
	defer f.Close()

	var out []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev, err := parseWireEvent(line)
		if err != nil {
			log.Printf("[!] events.jsonl:%d discarded: %v", lineNo, err)
			continue
		}
		out = append(out, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, jobtype.Wrap(jobtype.InputInvalid, "events.jsonl", err)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out, nil
}

// LoadWindowEvents reads the optional window_events.jsonl, one WindowFocus
// per line. Absence of the file is not an error: window focus tracking is
// optional per spec §3.
func LoadWindowEvents(recordingDir string) ([]Event, error) {
	path := filepath.Join(recordingDir, "window_events.jsonl")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, jobtype.Wrap(jobtype.AssetMissing, "window_events.jsonl", err)
	}
	defer f.Close()

	var out []Event
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev, err := parseWireEvent(line)
		if err != nil {
			log.Printf("[!] window_events.jsonl:%d discarded: %v", lineNo, err)
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out, nil
}

func parseWireEvent(line string) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return Event{}, err
	}

	kind := Kind(w.Type)
	switch kind {
	case KindMouseMove, KindClick, KindClickRelease, KindScroll, KindKeyPress, KindWindowFocus:
	default:
		return Event{}, fmt.Errorf("unknown event type %q", w.Type)
	}

	ev := Event{Kind: kind, T: w.T, X: w.X, Y: w.Y, Button: w.Button, DX: w.DX, DY: w.DY, Key: w.Key, Title: w.Title}
	if len(w.Modifiers) > 0 {
		ev.Modifiers = make(map[Modifier]bool, len(w.Modifiers))
		for _, m := range w.Modifiers {
			ev.Modifiers[Modifier(strings.ToLower(m))] = true
		}
	}
	if w.Rect != nil {
		ev.Rect = WindowRect{X: w.Rect.X, Y: w.Rect.Y, W: w.Rect.W, H: w.Rect.H}
	}
	return ev, nil
}

// MergeWindowEvents interleaves window-focus events into the main event
// stream in timestamp order, so downstream stages see a single ordered
// sequence as spec §3 requires ("Events are ... globally time-ordered").
func MergeWindowEvents(main, window []Event) []Event {
	if len(window) == 0 {
		return main
	}
	merged := make([]Event, 0, len(main)+len(window))
	merged = append(merged, main...)
	merged = append(merged, window...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].T < merged[j].T })
	return merged
}

// FrameTimestamp derives the effective timestamp of frame index i (0-based)
// per spec §6: t_i = i * duration_ms / frame_count, ignoring the nominal fps.
func FrameTimestamp(i, frameCount int, durationMs float64) float64 {
	if frameCount <= 0 {
		return 0
	}
	return float64(i) * durationMs / float64(frameCount)
}

// FramePath returns the path of the 1-based, zero-padded 8-digit frame file
// for the 0-based index i, per spec §6.
func FramePath(recordingDir string, i int) string {
	return filepath.Join(recordingDir, "frames", fmt.Sprintf("frame_%08d.png", i+1))
}
