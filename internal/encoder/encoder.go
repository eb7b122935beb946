// Package encoder runs one external ffmpeg encode to completion: it builds
// the command for a request, supervises the process in verbose or quiet
// mode, and reports failures with diagnostic context. It does not interpret
// the produced artifact; that is the search engine's job.
package encoder

import (
	"fmt"
	"strings"
)

// Request describes a single encoding attempt. It is immutable per attempt;
// the search engine constructs a fresh one each iteration with an updated
// bitrate.
type Request struct {
	SourcePath  string
	OutputPath  string
	Format      string // Must map to a codec profile.
	BitrateKbps int    // Candidate video bitrate.
	Audio       bool   // Include audio at the fixed audio bitrate.
	Verbose     bool   // Stream ffmpeg output instead of the spinner.
}

// audioBitrate is the fixed audio rate used whenever audio is enabled.
const audioBitrate = "128k"

// stderrTailLines bounds how much captured diagnostic output a Failure carries.
const stderrTailLines = 20

// Failure reports that the encoder process could not be started or exited
// with a non-zero status. It is never retried at the same bitrate: a
// deterministic encoder crash is not self-correcting.
type Failure struct {
	ExitCode int    // -1 when the process could not be started.
	Stderr   string // Tail of captured diagnostic output, may be empty.
	Err      error
}

func (f *Failure) Error() string {
	if f.ExitCode < 0 {
		return fmt.Sprintf("encoder could not be started: %v", f.Err)
	}
	return fmt.Sprintf("encoder exited with status %d", f.ExitCode)
}

func (f *Failure) Unwrap() error { return f.Err }

// stderrTail returns the last stderrTailLines lines of s.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return strings.Join(lines, "\n")
}
