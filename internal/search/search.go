// Package search implements the bitrate convergence loop: an integer binary
// search over a bitrate interval against a black-box encoder, narrowing the
// interval by measuring each attempt's artifact size until the interval
// width is at most one kbps.
package search

import (
	"context"
	"fmt"
	"os"

	"github.com/stormedx/shrinkx/internal/display"
)

// Encoder is the black-box cost capability the engine searches over: one
// encoding attempt at a candidate bitrate that leaves an artifact at the
// engine's output path. The production implementation spawns ffmpeg; tests
// substitute a synthetic deterministic stand-in.
type Encoder interface {
	Encode(ctx context.Context, bitrateKbps int) error
}

// Logger is the minimal logging interface the engine needs for progress
// reporting. Defined here (rather than importing the logging package) so
// the engine stays dependency-light and testable with a mock.
type Logger interface {
	Debug(string, ...interface{})
}

// Bounds is the open search interval in kbps. The interval narrows
// monotonically: Low never decreases, High never increases, and the width
// strictly shrinks each iteration.
type Bounds struct {
	Low  int
	High int
}

// DefaultBounds returns the stock interval. The upper bound exceeds any
// practically useful bitrate for size-budgeted output.
func DefaultBounds() Bounds {
	return Bounds{Low: 0, High: 10000}
}

// Validate rejects intervals the loop cannot narrow. A width below two
// means the interval is already converged and no attempt would ever run.
func (b Bounds) Validate() error {
	if b.Low < 0 || b.Low >= b.High {
		return fmt.Errorf("invalid bitrate interval %d..%d kbps (need 0 <= low < high)", b.Low, b.High)
	}
	if b.High-b.Low < 2 {
		return fmt.Errorf("bitrate interval %d..%d kbps already converged, nothing to search", b.Low, b.High)
	}
	return nil
}

// Result is the outcome of a converged search. BitrateKbps is the bitrate
// of the final encode: the last midpoint when it fit the budget, otherwise
// the accepted lower bound the engine re-encodes at before returning.
type Result struct {
	OutputPath  string
	Size        int64
	BitrateKbps int
	Attempts    int

	// TargetMet is false only when no attempt in the interval fit the
	// budget, i.e. even the lowest candidate bitrate overshot. The
	// oversized artifact is still returned as a best effort; callers
	// decide how loudly to complain.
	TargetMet bool
}

// Engine owns one search invocation. Each attempt overwrites the single
// artifact at OutputPath; the engine is the only reader and (via the
// encoder) the only writer of that path, strictly sequenced.
type Engine struct {
	Encoder    Encoder
	OutputPath string
	TargetSize int64
	Bounds     Bounds
	Log        Logger // Optional.
}

// Run executes the convergence loop. Any encoder failure aborts the search
// immediately: no partial results, no retry at the same bitrate. At most
// ceil(log2(High-Low))+1 attempts are made, the +1 being the final pass
// below.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.TargetSize <= 0 {
		return Result{}, fmt.Errorf("target size must be positive, got %d", e.TargetSize)
	}
	if err := e.Bounds.Validate(); err != nil {
		return Result{}, err
	}

	low, high := e.Bounds.Low, e.Bounds.High
	var res Result

	for high-low > 1 {
		mid := (low + high) / 2
		if err := e.attempt(ctx, mid, &res); err != nil {
			return Result{}, err
		}

		if res.Size > e.TargetSize {
			high = mid
		} else {
			low = mid
		}

		if e.Log != nil {
			e.Log.Debug("attempt %d: %s -> %s (interval %d..%d kbps)",
				res.Attempts, display.FormatBitrateLabel(int64(mid)),
				display.FormatBytes(res.Size), low, high)
		}
	}

	// The loop can converge on a rejected high-side attempt, overwriting an
	// earlier in-budget artifact. Encode once more at the accepted lower
	// bound so the final artifact fits whenever any attempt did.
	if res.Size > e.TargetSize && low > e.Bounds.Low {
		if err := e.attempt(ctx, low, &res); err != nil {
			return Result{}, err
		}
		if e.Log != nil {
			e.Log.Debug("final pass: re-encoded at accepted %s -> %s",
				display.FormatBitrateLabel(int64(low)), display.FormatBytes(res.Size))
		}
	}

	res.TargetMet = res.Size <= e.TargetSize
	return res, nil
}

// attempt runs one encode at the given bitrate and records its artifact in
// res. The artifact must exist at OutputPath afterwards.
func (e *Engine) attempt(ctx context.Context, kbps int, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res.Attempts++

	if err := e.Encoder.Encode(ctx, kbps); err != nil {
		return fmt.Errorf("encode at %d kbps: %w", kbps, err)
	}
	fi, err := os.Stat(e.OutputPath)
	if err != nil {
		return fmt.Errorf("no artifact after encode at %d kbps: %w", kbps, err)
	}

	res.OutputPath = e.OutputPath
	res.Size = fi.Size()
	res.BitrateKbps = kbps
	return nil
}
