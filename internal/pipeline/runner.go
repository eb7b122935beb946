// Package pipeline orchestrates one compression run: resolve the source
// (downloading link inputs), probe it, drive the bitrate search, report the
// outcome, and clean up a downloaded source.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stormedx/shrinkx/internal/config"
	"github.com/stormedx/shrinkx/internal/display"
	"github.com/stormedx/shrinkx/internal/encoder"
	"github.com/stormedx/shrinkx/internal/fetch"
	"github.com/stormedx/shrinkx/internal/logging"
	"github.com/stormedx/shrinkx/internal/naming"
	"github.com/stormedx/shrinkx/internal/probe"
	"github.com/stormedx/shrinkx/internal/search"
)

// ffmpegAttempt adapts the process supervisor to the search engine's
// black-box encoder capability: same request every attempt, only the
// candidate bitrate changes.
type ffmpegAttempt struct {
	runner   *encoder.FFmpeg
	template encoder.Request
}

func (a *ffmpegAttempt) Encode(ctx context.Context, bitrateKbps int) error {
	req := a.template
	req.BitrateKbps = bitrateKbps
	return a.runner.Encode(ctx, req)
}

// Run executes one compression end to end. All failures are fatal to the
// invocation; the caller presents the error and exits non-zero.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	input, downloaded, err := resolveSource(ctx, cfg, log)
	if err != nil {
		return err
	}

	outputPath, err := planOutput(cfg, input, downloaded)
	if err != nil {
		return err
	}

	ff := &encoder.FFmpeg{}
	if !cfg.Verbose {
		ff.Spinner = display.NewSpinner(os.Stdout)
	}
	enc := &ffmpegAttempt{
		runner: ff,
		template: encoder.Request{
			SourcePath: input,
			OutputPath: outputPath,
			Format:     cfg.Format,
			Audio:      cfg.Audio,
			Verbose:    cfg.Verbose,
		},
	}

	return compress(ctx, cfg, log, enc, input, outputPath, downloaded)
}

// planOutput picks the artifact path and makes sure its directory exists.
func planOutput(cfg *config.Config, input string, downloaded bool) (string, error) {
	outputDir := cfg.OutputDir
	if downloaded && outputDir == "" {
		// The default (next to the source) would land the artifact inside
		// the staging directory that gets removed afterwards; downloads
		// default to the working directory instead.
		outputDir = "."
	}
	outputPath := naming.OutputPath(input, outputDir, cfg.Format)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}
	return outputPath, nil
}

// compress drives the bitrate search over enc, reports the outcome, and
// cleans up a downloaded source. Split from Run so the orchestration can be
// exercised without spawning ffmpeg.
func compress(ctx context.Context, cfg *config.Config, log *logging.Logger, enc search.Encoder, input, outputPath string, downloaded bool) error {
	fi, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input not found: %s", input)
	}

	logSourceStats(ctx, cfg, log, input, fi.Size())
	log.Info("Compressing to at most %s (%s), interval %d..%d kbps",
		display.FormatBytes(cfg.TargetSize), cfg.Format, cfg.MinBitrate, cfg.MaxBitrate)

	eng := &search.Engine{
		Encoder:    enc,
		OutputPath: outputPath,
		TargetSize: cfg.TargetSize,
		Bounds:     search.Bounds{Low: cfg.MinBitrate, High: cfg.MaxBitrate},
		Log:        log,
	}

	start := time.Now()
	res, err := eng.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if res.TargetMet {
		log.Success("Converged in %ds over %d attempts at %s",
			int(elapsed.Seconds()), res.Attempts, display.FormatBitrateLabel(int64(res.BitrateKbps)))
	} else {
		log.Warn("No bitrate in %d..%d kbps fits the target (%s > %s); keeping best effort",
			cfg.MinBitrate, cfg.MaxBitrate,
			display.FormatBytes(res.Size), display.FormatBytes(cfg.TargetSize))
	}
	log.Success("Compressed file saved as %s (%s, %s)",
		res.OutputPath, display.FormatBytes(res.Size), display.FormatRatio(res.Size, fi.Size()))

	if downloaded && !cfg.KeepSource && input != res.OutputPath {
		removeDownloaded(log, input)
	}
	return nil
}

// resolveSource turns the input argument into a local file path, downloading
// it first when it is a remote link.
func resolveSource(ctx context.Context, cfg *config.Config, log *logging.Logger) (path string, downloaded bool, err error) {
	if !fetch.IsRemoteLink(cfg.Input) {
		return cfg.Input, false, nil
	}

	log.Info("Link detected, downloading with yt-dlp...")
	baseDir := cfg.OutputDir
	if baseDir == "" {
		baseDir = "."
	}
	d := &fetch.Downloader{Verbose: cfg.Verbose}
	local, err := d.Download(ctx, cfg.Input, baseDir)
	if err != nil {
		return "", false, err
	}
	log.Success("Downloaded: %s", filepath.Base(local))
	return local, true, nil
}

// logSourceStats prints duration/resolution/bitrate for the source plus a
// rough bitrate hint for the target. Best effort: a probe failure only
// degrades the output, it never stops the run.
func logSourceStats(ctx context.Context, cfg *config.Config, log *logging.Logger, input string, size int64) {
	pr, err := probe.Probe(ctx, input)
	if err != nil {
		log.Debug("probe failed: %v", err)
		log.Info("Source: %s (%s)", filepath.Base(input), display.FormatBytes(size))
		return
	}

	log.Info("Source: %s | %s | %s | %s",
		filepath.Base(input), pr.Resolution(),
		display.FormatBytes(size), display.FormatBitrateLabel(pr.BitRate/1000))

	if est := pr.EstimateKbps(cfg.TargetSize); est > 0 {
		log.Debug("rough total bitrate for target: %s", display.FormatBitrateLabel(est))
	}
}

// removeDownloaded deletes a downloaded source file and its staging
// directory. Failures are logged, not fatal: the compression succeeded.
func removeDownloaded(log *logging.Logger, path string) {
	if err := os.Remove(path); err != nil {
		log.Warn("Could not remove downloaded source: %v", err)
		return
	}
	// The staging directory holds only the downloaded file.
	if err := os.Remove(filepath.Dir(path)); err != nil {
		log.Debug("staging directory not removed: %v", err)
	}
	log.Info("Removed downloaded source")
}
