// Command shrinkx compresses a video file or link to a target size. It
// parses flags, validates configuration, and either runs system diagnostics
// (--check) or the compression pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stormedx/shrinkx/internal/check"
	"github.com/stormedx/shrinkx/internal/config"
	"github.com/stormedx/shrinkx/internal/display"
	"github.com/stormedx/shrinkx/internal/fetch"
	"github.com/stormedx/shrinkx/internal/logging"
	"github.com/stormedx/shrinkx/internal/pipeline"
)

// version is injected at build time via -ldflags. When built with plain
// "go build" it retains the default.
var version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "shrinkx: %v\n", err)
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "shrinkx: %v\n", err)
		return 2
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shrinkx: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(log) {
			return 1
		}
		return 0
	}

	// Fail fast if ffmpeg (and yt-dlp, for link inputs) are unavailable.
	if err := check.CheckDeps(fetch.IsRemoteLink(cfg.Input)); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so a
	// running download or encode attempt is stopped cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping...")
		cancel()
	}()

	// Phase 4: Run the compression pipeline.
	if err := pipeline.Run(ctx, &cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
