package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// InitResourceLimits raises the open-file-descriptor limit, since a job
// holds the source frame directory, the compositor's worker pool, and the
// encoder's stdin pipe open concurrently.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] failed to read file descriptor limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] failed to raise file descriptor limit: %v", err)
	} else {
		fmt.Printf("[*] file descriptor limit raised to %d\n", rLimit.Cur)
	}
}

// FindLatestRecording scans dir for immediate subdirectories that look like
// a recording (contain meta.json) and returns the most recently modified
// one, for the CLI's "-input not given, use the newest recording" default.
func FindLatestRecording(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestPath string
	var latestTime time.Time
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(dir, e.Name())
		metaPath := filepath.Join(candidate, "meta.json")
		info, err := os.Stat(metaPath)
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestPath = candidate
		}
	}

	if latestPath == "" {
		return "", fmt.Errorf("no recording directories (with meta.json) found under %s", dir)
	}
	return latestPath, nil
}

// GetBestH264Encoder picks the fastest hardware H.264 encoder FFmpeg
// reports as available, falling back to libx264.
func GetBestH264Encoder() string {
	candidates := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	listed := string(out)
	for _, name := range candidates {
		if strings.Contains(listed, name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQualityFor returns a sane default quality value for the given
// codec's quality knob (CRF for libx264, a CRF-equivalent for NVENC, a
// kbit/s-scaled bitrate multiplier for VideoToolbox).
func DefaultQualityFor(codec string) int {
	switch codec {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
