// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for ffmpeg, the codec profiles, and yt-dlp.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/stormedx/shrinkx/internal/codec"
	"github.com/stormedx/shrinkx/internal/display"
	"github.com/stormedx/shrinkx/internal/fetch"
)

// ErrFfmpegNotFound is returned by CheckDeps when ffmpeg is missing.
var ErrFfmpegNotFound = errors.New("ffmpeg not found on PATH")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: ffmpeg availability, a test
// encode per codec profile, yt-dlp availability, and a host summary.
// Informational only; it does not stop on failure. Returns false when the
// hard requirement (ffmpeg) is missing.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfmpeg(log)
	if ok {
		checkProfiles(log)
	}
	checkYtdlp(log)
	checkHost(log)
	return ok
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return false
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// checkProfiles runs a minimal test encode for each codec profile's video
// encoder against a synthetic source.
func checkProfiles(log Logger) {
	log.Info("Codec profiles:")
	for _, format := range codec.Formats() {
		prof, err := codec.Lookup(format)
		if err != nil {
			continue
		}
		if runSilent("ffmpeg", profileTestArgs(prof)...) {
			log.Success("  %s (%s) works", format, prof.VideoCodec)
		} else {
			log.Error("  %s (%s) test encode failed", format, prof.VideoCodec)
		}
	}
}

// checkYtdlp reports whether link inputs would work.
func checkYtdlp(log Logger) {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		log.Warn("yt-dlp not found (link inputs unavailable)")
		return
	}
	out, err := exec.Command("yt-dlp", "--version").Output()
	if err != nil {
		log.Warn("yt-dlp found but --version failed: %v", err)
		return
	}
	log.Success("yt-dlp: %s", strings.TrimSpace(string(out)))
}

// checkHost logs a one-line host summary so encode-speed expectations can
// be sanity-checked.
func checkHost(log Logger) {
	cores, err := cpu.Counts(true)
	if err != nil {
		cores = 0
	}
	vm, err := mem.VirtualMemory()
	if err != nil || cores == 0 {
		log.Warn("Host info unavailable")
		return
	}
	log.Info("Host: %d logical CPUs, %s memory", cores, display.FormatBytes(int64(vm.Total)))
}

// CheckDeps is the pre-run validation: ffmpeg must be on PATH, and yt-dlp
// too when the input is a remote link. Returns a sentinel error on failure.
func CheckDeps(needsFetch bool) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if needsFetch {
		if _, err := exec.LookPath("yt-dlp"); err != nil {
			return fetch.ErrYtdlpNotFound
		}
	}
	return nil
}

// --- internal helpers ---

// profileTestArgs returns ffmpeg arguments for a minimal test encode with
// the profile's video codec (synthetic source, null muxer).
func profileTestArgs(prof codec.Profile) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", prof.VideoCodec,
	}
	args = append(args, prof.ExtraArgs...)
	return append(args, "-f", "null", "-")
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
