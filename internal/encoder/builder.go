package encoder

import (
	"fmt"

	"github.com/stormedx/shrinkx/internal/codec"
)

// Build constructs the complete ffmpeg argument slice for one attempt.
// The command follows a fixed skeleton: preamble, input, video codec and
// candidate bitrate, format-specific extras, audio section (or -an), output.
// The output path is overwritten in place across attempts (-y).
func Build(req Request, prof codec.Profile) []string {
	args := make([]string, 0, 24)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-y", "-hide_banner", "-nostdin")

	// Loglevel: info when verbose, otherwise error.
	if req.Verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Input ---
	args = append(args, "-i", req.SourcePath)

	// --- Video codec and candidate bitrate ---
	args = append(args,
		"-c:v", prof.VideoCodec,
		"-b:v", fmt.Sprintf("%dk", req.BitrateKbps),
	)

	// --- Format-specific extras (e.g. -preset ultrafast) ---
	args = append(args, prof.ExtraArgs...)

	// --- Audio ---
	if req.Audio {
		args = append(args, "-c:a", prof.AudioCodec, "-b:a", audioBitrate)
	} else {
		args = append(args, "-an")
	}

	// --- Output ---
	args = append(args, req.OutputPath)

	return args
}
