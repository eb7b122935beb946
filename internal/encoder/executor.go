package encoder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/stormedx/shrinkx/internal/codec"
	"github.com/stormedx/shrinkx/internal/display"
)

// pollInterval is how often quiet mode checks process liveness and advances
// the spinner. Cosmetic only; it must not meaningfully delay completion
// detection.
const pollInterval = 100 * time.Millisecond

// FFmpeg supervises real ffmpeg processes. The zero value is usable; set
// Spinner to render liveness feedback during quiet-mode attempts.
type FFmpeg struct {
	Spinner *display.Spinner
}

// Encode runs one ffmpeg invocation to completion. The request's format
// must map to a known codec profile; an unknown format is rejected here
// before any process is spawned.
//
// In verbose mode the process streams are connected to the caller's
// terminal and Encode blocks on the process directly. In quiet mode stdout
// is discarded, stderr is captured only for failure diagnostics, and a
// spinner frame is rendered on each liveness poll.
func (f *FFmpeg) Encode(ctx context.Context, req Request) error {
	prof, err := codec.Lookup(req.Format)
	if err != nil {
		return err
	}
	args := Build(req, prof)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	if req.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return asFailure(err, "")
		}
		return nil
	}

	var stderrBuf bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return &Failure{ExitCode: -1, Err: err}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if f.Spinner != nil {
				f.Spinner.Clear()
			}
			if err != nil {
				return asFailure(err, stderrBuf.String())
			}
			return nil
		case <-ticker.C:
			if f.Spinner != nil {
				f.Spinner.Tick()
			}
		}
	}
}

// asFailure wraps a process error, extracting the exit status when present.
func asFailure(err error, stderr string) *Failure {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &Failure{ExitCode: code, Stderr: stderrTail(stderr), Err: err}
}
