package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize converts a human-readable size string into bytes. Accepted
// forms: a number optionally followed by "kb", "mb", or "gb"
// (case-insensitive). A bare number is taken as bytes. The numeric part may
// be fractional when a unit is given ("3.5mb"); a bare byte count must be a
// whole number.
func ParseSize(raw string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(s, "kb"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "kb")
	case strings.HasSuffix(s, "mb"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "mb")
	case strings.HasSuffix(s, "gb"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "gb")
	}
	s = strings.TrimSpace(s)

	if multiplier == 1 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid size %q (use e.g. 400kb, 5mb, 2gb, or a byte count)", raw)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid size %q (use e.g. 400kb, 5mb, 2gb, or a byte count)", raw)
	}
	return int64(f * float64(multiplier)), nil
}
