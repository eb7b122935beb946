// Package probe provides ffprobe-based source inspection. A single JSON
// call per file yields the duration, resolution, and bitrate shown before
// the search starts. Probe results are informational only; they never feed
// the search interval.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Result holds the subset of source metadata shrinkx reports.
type Result struct {
	Duration float64 // Seconds; 0 when unknown.
	Width    int
	Height   int
	BitRate  int64 // Container bitrate in bits per second; 0 when unknown.
	Codec    string
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result.
func Probe(ctx context.Context, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	r := &Result{}
	r.Duration, _ = strconv.ParseFloat(raw.Format.Duration, 64)
	r.BitRate, _ = strconv.ParseInt(raw.Format.BitRate, 10, 64)

	for _, s := range raw.Streams {
		if s.CodecType == "video" {
			r.Width = s.Width
			r.Height = s.Height
			r.Codec = s.CodecName
			break
		}
	}
	return r, nil
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (r *Result) Resolution() string {
	if r.Width <= 0 || r.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// EstimateKbps returns the total bitrate in kbps that would land a file of
// targetBytes given the source duration, or 0 when the duration is unknown.
// Purely a hint for the user; the search finds the real value.
func (r *Result) EstimateKbps(targetBytes int64) int64 {
	if r.Duration <= 0 {
		return 0
	}
	return int64(float64(targetBytes*8) / r.Duration / 1000)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}
