package search

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stormedx/shrinkx/internal/display"
)

// syntheticEncoder is a fast deterministic stand-in for the ffmpeg
// supervisor: each attempt writes an artifact whose size is sizeFor(kbps).
type syntheticEncoder struct {
	path     string
	sizeFor  func(kbps int) int64
	attempts []int
	spinner  *display.Spinner
	failWith error
}

func (s *syntheticEncoder) Encode(_ context.Context, kbps int) error {
	s.attempts = append(s.attempts, kbps)
	if s.failWith != nil {
		return s.failWith
	}
	if s.spinner != nil {
		s.spinner.Tick()
	}
	return os.WriteFile(s.path, make([]byte, s.sizeFor(kbps)), 0o644)
}

func newEngine(t *testing.T, target int64, sizeFor func(int) int64) (*Engine, *syntheticEncoder) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.mp4")
	enc := &syntheticEncoder{path: path, sizeFor: sizeFor}
	return &Engine{
		Encoder:    enc,
		OutputPath: path,
		TargetSize: target,
		Bounds:     DefaultBounds(),
	}, enc
}

// linearCost mimics the usual encoder behavior: output size grows
// monotonically with bitrate.
func linearCost(kbps int) int64 { return int64(kbps) * 10 }

func TestRun_ConvergenceBound(t *testing.T) {
	eng, enc := newEngine(t, 42_000, linearCost)

	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	maxAttempts := int(math.Ceil(math.Log2(float64(eng.Bounds.High-eng.Bounds.Low)))) + 1
	if res.Attempts > maxAttempts {
		t.Errorf("Run() took %d attempts, want at most %d", res.Attempts, maxAttempts)
	}
	if res.Attempts != len(enc.attempts) {
		t.Errorf("Attempts = %d but encoder saw %d calls", res.Attempts, len(enc.attempts))
	}
	if res.Size != linearCost(res.BitrateKbps) {
		t.Errorf("Size = %d, want cost of last attempt %d", res.Size, linearCost(res.BitrateKbps))
	}
	if !res.TargetMet {
		t.Error("target 42000 is reachable, TargetMet should be true")
	}
}

func TestRun_MonotonicNarrowing(t *testing.T) {
	target := int64(42_000)
	eng, enc := newEngine(t, target, linearCost)

	if _, err := eng.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Replay the bisection and check invariants against the recorded
	// attempt sequence.
	low, high := eng.Bounds.Low, eng.Bounds.High
	for i, mid := range enc.attempts {
		if high-low <= 1 {
			// Converged; the only permitted extra attempt is the
			// final pass at the accepted lower bound.
			if i != len(enc.attempts)-1 || mid != low {
				t.Fatalf("attempt %d tried %d kbps after convergence at %d..%d", i, mid, low, high)
			}
			break
		}
		if want := (low + high) / 2; mid != want {
			t.Fatalf("attempt %d tried %d kbps, want midpoint %d of %d..%d", i, mid, want, low, high)
		}
		prevWidth := high - low
		if linearCost(mid) > target {
			high = mid
		} else {
			low = mid
		}
		if low < 0 || low >= high {
			t.Fatalf("interval invariant violated after attempt %d: %d..%d", i, low, high)
		}
		if high-low >= prevWidth {
			t.Fatalf("interval did not strictly narrow after attempt %d: width %d -> %d", i, prevWidth, high-low)
		}
	}
	if high-low > 1 {
		t.Errorf("loop ended with width %d, want <= 1", high-low)
	}
}

func TestRun_FinalPassRecoversAcceptedBitrate(t *testing.T) {
	// 41985 is reachable at 4198 kbps (41980 bytes), but the bisection's
	// last attempts land on the rejected high side: without the final pass
	// the in-budget artifact would be overwritten by an oversized one.
	target := int64(41_985)
	eng, enc := newEngine(t, target, linearCost)

	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !res.TargetMet {
		t.Errorf("target %d is reachable at 4198 kbps, TargetMet should be true", target)
	}
	if res.Size > target {
		t.Errorf("final artifact size = %d, want <= %d", res.Size, target)
	}
	if res.BitrateKbps != 4198 {
		t.Errorf("BitrateKbps = %d, want the accepted bound 4198", res.BitrateKbps)
	}

	last := enc.attempts[len(enc.attempts)-1]
	if last != 4198 {
		t.Errorf("last encode ran at %d kbps, want final pass at 4198", last)
	}
	fi, err := os.Stat(res.OutputPath)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if fi.Size() != res.Size {
		t.Errorf("artifact on disk is %d bytes, Result says %d", fi.Size(), res.Size)
	}
}

func TestRun_IdempotentRerun(t *testing.T) {
	first, firstEnc := newEngine(t, 123_456, linearCost)
	second, secondEnc := newEngine(t, 123_456, linearCost)

	r1, err := first.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	r2, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}

	if r1.BitrateKbps != r2.BitrateKbps || r1.Size != r2.Size || r1.Attempts != r2.Attempts {
		t.Errorf("re-run diverged: %+v vs %+v", r1, r2)
	}
	if !reflect.DeepEqual(firstEnc.attempts, secondEnc.attempts) {
		t.Errorf("attempt sequences differ: %v vs %v", firstEnc.attempts, secondEnc.attempts)
	}
}

func TestRun_SpinnerDoesNotChangeSearch(t *testing.T) {
	quiet, quietEnc := newEngine(t, 42_000, linearCost)
	quietEnc.spinner = display.NewSpinner(io.Discard)

	verbose, verboseEnc := newEngine(t, 42_000, linearCost)

	rq, err := quiet.Run(context.Background())
	if err != nil {
		t.Fatalf("quiet Run() error: %v", err)
	}
	rv, err := verbose.Run(context.Background())
	if err != nil {
		t.Fatalf("verbose Run() error: %v", err)
	}

	if rq.BitrateKbps != rv.BitrateKbps || rq.Size != rv.Size {
		t.Errorf("liveness rendering changed the outcome: %+v vs %+v", rq, rv)
	}
	if !reflect.DeepEqual(quietEnc.attempts, verboseEnc.attempts) {
		t.Errorf("attempt sequences differ: %v vs %v", quietEnc.attempts, verboseEnc.attempts)
	}
}

func TestRun_UnreachableTargetTerminates(t *testing.T) {
	// Even the minimum bitrate produces more than the target.
	floor := func(kbps int) int64 { return 1_000_000 + int64(kbps) }
	eng, _ := newEngine(t, 500, floor)

	res, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.TargetMet {
		t.Error("TargetMet should be false when the floor exceeds the target")
	}
	if res.Size <= eng.TargetSize {
		t.Errorf("expected an oversized best-effort artifact, got %d <= %d", res.Size, eng.TargetSize)
	}
	if res.OutputPath == "" {
		t.Error("best-effort artifact path must still be reported")
	}
}

func TestRun_EncoderFailureAborts(t *testing.T) {
	eng, enc := newEngine(t, 42_000, linearCost)
	boom := errors.New("encoder exploded")
	enc.failWith = boom

	_, err := eng.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want wrapped encoder failure", err)
	}
	if len(enc.attempts) != 1 {
		t.Errorf("search must abort after the first failure, saw %d attempts", len(enc.attempts))
	}
}

func TestRun_MissingArtifactFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.mp4")
	enc := &syntheticEncoder{path: path, sizeFor: linearCost}
	eng := &Engine{
		Encoder:    enc,
		OutputPath: filepath.Join(t.TempDir(), "elsewhere.mp4"), // encoder writes somewhere else
		TargetSize: 1000,
		Bounds:     DefaultBounds(),
	}

	if _, err := eng.Run(context.Background()); err == nil {
		t.Error("Run() must fail when no artifact appears at the output path")
	}
}

func TestRun_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		target int64
		bounds Bounds
	}{
		{"zero target", 0, DefaultBounds()},
		{"negative target", -5, DefaultBounds()},
		{"negative low", 1000, Bounds{Low: -1, High: 100}},
		{"inverted bounds", 1000, Bounds{Low: 100, High: 50}},
		{"converged bounds", 1000, Bounds{Low: 100, High: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.mp4")
			eng := &Engine{
				Encoder:    &syntheticEncoder{path: path, sizeFor: linearCost},
				OutputPath: path,
				TargetSize: tt.target,
				Bounds:     tt.bounds,
			}
			if _, err := eng.Run(context.Background()); err == nil {
				t.Error("Run() should reject invalid input")
			}
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	eng, enc := newEngine(t, 42_000, linearCost)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(enc.attempts) != 0 {
		t.Errorf("no attempts expected after cancellation, saw %d", len(enc.attempts))
	}
}

func TestDefaultBounds(t *testing.T) {
	b := DefaultBounds()
	if b.Low != 0 || b.High != 10000 {
		t.Errorf("DefaultBounds() = %+v, want 0..10000", b)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("DefaultBounds().Validate() error: %v", err)
	}
}
