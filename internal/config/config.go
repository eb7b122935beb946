// Package config holds runtime configuration: defaults, CLI flag parsing,
// size parsing, and validation. Defaults match the legacy shrinkx script
// for parity.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stormedx/shrinkx/internal/codec"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Input is the positional argument: a local file path or a remote link.
	Input string

	// Output settings.
	Format    string // Output container format (default: "mp4").
	OutputDir string // Optional output directory override.

	// TargetSize is the size budget in bytes (default: 7 MiB).
	TargetSize int64

	// Audio settings. Audio is included at the fixed bitrate unless
	// disabled via --no-audio (or the --chan preset).
	Audio        bool
	AudioBitrate string // Fixed: "128k".

	// Bitrate search interval in kbps. The upper bound sits above any
	// practically useful bitrate for budget-constrained output; both are
	// tunable for unusual sources.
	MinBitrate int // Default: 0.
	MaxBitrate int // Default: 10000.

	// Behavior flags.
	Verbose    bool // Stream ffmpeg/yt-dlp output instead of the spinner.
	KeepSource bool // Keep a downloaded source file after compressing.

	// Display and logging.
	ColorMode ColorMode
	LogFile   string // Optional log file path.
	CheckOnly bool   // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching legacy shrinkx
// behavior. Used as the base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Format:       "mp4",
		TargetSize:   7 * 1024 * 1024,
		Audio:        true,
		AudioBitrate: "128k",
		MinBitrate:   0,
		MaxBitrate:   10000,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that the output format has a codec profile, the target
// size is positive, and the bitrate interval is sane. When not in CheckOnly
// mode it also requires the input argument.
func (c *Config) Validate() error {
	if _, err := codec.Lookup(c.Format); err != nil {
		return fmt.Errorf("%w (supported: %s)", err, strings.Join(codec.Formats(), ", "))
	}
	if c.TargetSize <= 0 {
		return errors.New("target size must be positive")
	}
	if c.MinBitrate < 0 || c.MinBitrate >= c.MaxBitrate {
		return fmt.Errorf("invalid bitrate interval %d..%d kbps (need 0 <= min < max)", c.MinBitrate, c.MaxBitrate)
	}
	if c.MaxBitrate-c.MinBitrate < 2 {
		return fmt.Errorf("bitrate interval %d..%d kbps is too narrow to search", c.MinBitrate, c.MaxBitrate)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Input == "" {
		return errors.New("need a video file or link to compress")
	}
	return nil
}
