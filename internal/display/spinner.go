package display

import (
	"io"
)

// spinnerFrames is the rotating glyph sequence shown while an external
// process runs in quiet mode. Each frame is rendered over the previous one
// on the same terminal line.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner renders a single-character liveness indicator in place. It is
// purely cosmetic: callers drive it from their own poll loop, so it never
// affects timing-sensitive behavior.
type Spinner struct {
	w   io.Writer
	idx int
}

// NewSpinner returns a Spinner writing to w (normally os.Stdout).
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

// Tick writes the next frame followed by a backspace, so the following
// Tick (or Clear) overwrites it in place.
func (s *Spinner) Tick() {
	frame := spinnerFrames[s.idx%len(spinnerFrames)]
	s.idx++
	_, _ = io.WriteString(s.w, frame+"\b")
}

// Clear erases the current frame and resets the cycle.
func (s *Spinner) Clear() {
	_, _ = io.WriteString(s.w, " \b")
	s.idx = 0
}
