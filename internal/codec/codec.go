// Package codec holds the static output-format → encoder profile table.
// Profiles are read-only configuration data; they are never mutated at
// runtime.
package codec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedFormat is returned by [Lookup] for formats with no profile.
// It is a configuration error: callers must reject the request before any
// encoder process is spawned.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Profile describes how one output container format is encoded: the video
// and audio codec identifiers passed to ffmpeg and any format-specific
// extra flags, in order.
type Profile struct {
	VideoCodec string
	AudioCodec string
	ExtraArgs  []string
}

// profiles maps each supported output format to its encoder profile.
var profiles = map[string]Profile{
	"mp4":  {VideoCodec: "libx264", AudioCodec: "aac", ExtraArgs: []string{"-preset", "ultrafast"}},
	"webm": {VideoCodec: "libvpx-vp9", AudioCodec: "libopus", ExtraArgs: []string{"-speed", "4", "-row-mt", "1"}},
	"mkv":  {VideoCodec: "libx264", AudioCodec: "aac", ExtraArgs: []string{"-preset", "ultrafast"}},
	"avi":  {VideoCodec: "mpeg4", AudioCodec: "mp3", ExtraArgs: []string{"-qscale:v", "5"}},
}

// Lookup returns the profile for format, or an error wrapping
// [ErrUnsupportedFormat] when the format is unknown.
func Lookup(format string) (Profile, error) {
	p, ok := profiles[format]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return p, nil
}

// Formats returns the supported format names in sorted order, for help
// text and diagnostics.
func Formats() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
