// Package fetch is the remote-source collaborator: it detects links in the
// input argument and downloads them with yt-dlp into a unique staging
// directory, yielding a local file path for the compression core. The core
// itself never sees links.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrYtdlpNotFound is returned when a link is given but yt-dlp is not on PATH.
var ErrYtdlpNotFound = errors.New("yt-dlp not found on PATH (required for link inputs)")

// linkRe matches YouTube URLs, the only remote source the legacy script
// accepted.
var linkRe = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+`)

// formatSelector picks the best MP4 rendition, keeping the downloaded file
// directly usable as ffmpeg input.
const formatSelector = "best[ext=mp4]"

// IsRemoteLink reports whether the input argument is a downloadable link
// rather than a local file path.
func IsRemoteLink(input string) bool {
	return linkRe.MatchString(input)
}

// Downloader fetches remote sources with yt-dlp.
type Downloader struct {
	Verbose bool // Stream yt-dlp output instead of discarding it.
}

// Download fetches link into a fresh staging directory under baseDir and
// returns the local path of the downloaded file. The staging directory name
// carries a UUID so concurrent or repeated runs never collide.
func (d *Downloader) Download(ctx context.Context, link, baseDir string) (string, error) {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return "", ErrYtdlpNotFound
	}

	staging := filepath.Join(baseDir, "shrinkx-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	template := filepath.Join(staging, "%(title)s.%(ext)s")

	cmd := exec.CommandContext(ctx, "yt-dlp", "-f", formatSelector, "-o", template, link)
	if d.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp download failed: %w", err)
	}

	// yt-dlp resolves the output template itself; ask it for the final name
	// rather than guessing at its sanitization rules.
	nameCmd := exec.CommandContext(ctx, "yt-dlp", "--get-filename", "-f", formatSelector, "-o", template, link)
	out, err := nameCmd.Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp could not resolve the downloaded filename: %w", err)
	}
	path := strings.TrimSpace(string(out))

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded file missing at %s: %w", path, err)
	}
	return path, nil
}
