package config

// This file implements CLI flag parsing and help text.
// Boolean flags that invert a default (e.g. --no-audio) and the named
// presets are captured separately and applied after Parse, so that
// Config defaults hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/stormedx/shrinkx/internal/codec"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, bad size, missing
// positional arg).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("shrinkx", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var extra extraFlags

	defineOutputFlags(fs, cfg, &extra)
	definePresetFlags(fs, &extra)
	defineDisplayFlags(fs, cfg, &extra)
	defineUtilityFlags(fs, cfg, &extra)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if extra.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if extra.showVersion {
		fmt.Fprintln(os.Stdout, "shrinkx v"+version)
		os.Exit(0)
	}

	if err := applyExtraFlags(cfg, &extra); err != nil {
		return err
	}
	return parsePositionalArgs(fs, cfg)
}

// extraFlags holds values that need post-Parse handling: the raw size
// string, negated booleans, and the preset shortcuts.
type extraFlags struct {
	sizeStr       string
	noAudio       bool
	chanPreset    bool
	discordPreset bool
	forceColor    bool
	noColor       bool
	showVersion   bool
	showHelp      bool
}

// defineOutputFlags registers -f/--format, -s/--size, -o/--output,
// --no-audio, and the bitrate interval overrides.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config, e *extraFlags) {
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: "+strings.Join(codec.Formats(), " | "))
	fs.StringVar(&cfg.Format, "f", cfg.Format, "Same as --format")
	fs.StringVar(&e.sizeStr, "size", "", "Target size (e.g. 400kb, 5mb, 2gb; default 7mb)")
	fs.StringVar(&e.sizeStr, "s", "", "Same as --size")
	fs.StringVar(&cfg.OutputDir, "output", "", "Output directory for the compressed file")
	fs.StringVar(&cfg.OutputDir, "o", "", "Same as --output")
	fs.BoolVar(&e.noAudio, "no-audio", false, "Remove all audio from the output")
	fs.IntVar(&cfg.MinBitrate, "min-bitrate", cfg.MinBitrate, "Lower search bound in kbps")
	fs.IntVar(&cfg.MaxBitrate, "max-bitrate", cfg.MaxBitrate, "Upper search bound in kbps")
}

// definePresetFlags registers the named shortcut presets.
func definePresetFlags(fs *flag.FlagSet, e *extraFlags) {
	fs.BoolVar(&e.chanPreset, "chan", false, "Preset: webm, 3mb, no audio (4chan-friendly)")
	fs.BoolVar(&e.discordPreset, "discord", false, "Preset: mp4, 8mb (Discord-friendly)")
}

// defineDisplayFlags registers verbosity, color, and log flags.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, e *extraFlags) {
	fs.BoolVar(&cfg.Verbose, "show-background", false, "Show ffmpeg and yt-dlp output")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Same as --show-background")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --show-background")
	fs.BoolVar(&e.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&e.noColor, "no-color", false, "Disable colored logs")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --keep-source, --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, e *extraFlags) {
	fs.BoolVar(&cfg.KeepSource, "keep-source", false, "Keep a downloaded source file after compressing")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&e.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&e.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&e.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&e.showHelp, "h", false, "Same as --help")
}

// applyExtraFlags copies captured values into cfg. Presets are applied
// first so that an explicit --size or --format passed alongside a preset
// is overridden by it, matching legacy behavior. Precedence between
// presets: --chan wins over --discord.
func applyExtraFlags(cfg *Config, e *extraFlags) error {
	if e.sizeStr != "" {
		size, err := ParseSize(e.sizeStr)
		if err != nil {
			return err
		}
		cfg.TargetSize = size
	}

	if e.chanPreset {
		cfg.Format = "webm"
		cfg.TargetSize = 3 * 1024 * 1024
		cfg.Audio = false
	} else if e.discordPreset {
		cfg.Format = "mp4"
		cfg.TargetSize = 8 * 1024 * 1024
	}

	if e.noAudio {
		cfg.Audio = false
	}
	if e.noColor {
		cfg.ColorMode = ColorNever
	} else if e.forceColor {
		cfg.ColorMode = ColorAlways
	}
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}

// parsePositionalArgs sets Input from the single positional argument when
// not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one video file or link")
	}
	cfg.Input = args[0]
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "shrinkx v" + version + " — compress a video file or link to a target size"},
		{"", ""},
		{"  shrinkx [OPTIONS] <file|link>", ""},
		{"", ""},
		{"Output", ""},
		{"  -f, --format <name>", "Output format: " + strings.Join(codec.Formats(), " | ") + " (default: mp4)"},
		{"  -s, --size <size>", "Target size, e.g. 400kb, 5mb, 2gb (default: 7mb)"},
		{"  -o, --output <dir>", "Output directory for the compressed file"},
		{"  --no-audio", "Remove all audio from the output"},
		{"", ""},
		{"Presets", ""},
		{"  --chan", "webm, 3mb, no audio (4chan-friendly)"},
		{"  --discord", "mp4, 8mb (Discord-friendly)"},
		{"", ""},
		{"Search tuning", ""},
		{"  --min-bitrate <kbps>", "Lower search bound (default: 0)"},
		{"  --max-bitrate <kbps>", "Upper search bound (default: 10000)"},
		{"", ""},
		{"Display", ""},
		{"  -v, --show-background", "Show ffmpeg and yt-dlp output"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"", ""},
		{"Utility", ""},
		{"  --keep-source", "Keep a downloaded source file after compressing"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, codecs, yt-dlp)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
