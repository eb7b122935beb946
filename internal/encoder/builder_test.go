package encoder

import (
	"reflect"
	"testing"

	"github.com/stormedx/shrinkx/internal/codec"
)

func mustProfile(t *testing.T, format string) codec.Profile {
	t.Helper()
	p, err := codec.Lookup(format)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", format, err)
	}
	return p
}

func TestBuild_MP4WithAudio(t *testing.T) {
	req := Request{
		SourcePath:  "/in/clip.mov",
		OutputPath:  "/out/clip_compressed.mp4",
		Format:      "mp4",
		BitrateKbps: 5000,
		Audio:       true,
	}
	got := Build(req, mustProfile(t, "mp4"))
	want := []string{
		"ffmpeg", "-y", "-hide_banner", "-nostdin",
		"-loglevel", "error",
		"-i", "/in/clip.mov",
		"-c:v", "libx264",
		"-b:v", "5000k",
		"-preset", "ultrafast",
		"-c:a", "aac", "-b:a", "128k",
		"/out/clip_compressed.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() =\n%v\nwant\n%v", got, want)
	}
}

func TestBuild_WebmNoAudio(t *testing.T) {
	req := Request{
		SourcePath:  "in.mp4",
		OutputPath:  "in_compressed.webm",
		Format:      "webm",
		BitrateKbps: 1250,
		Audio:       false,
	}
	got := Build(req, mustProfile(t, "webm"))
	want := []string{
		"ffmpeg", "-y", "-hide_banner", "-nostdin",
		"-loglevel", "error",
		"-i", "in.mp4",
		"-c:v", "libvpx-vp9",
		"-b:v", "1250k",
		"-speed", "4", "-row-mt", "1",
		"-an",
		"in_compressed.webm",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() =\n%v\nwant\n%v", got, want)
	}
}

func TestBuild_VerboseLoglevel(t *testing.T) {
	req := Request{
		SourcePath:  "a.mp4",
		OutputPath:  "a_compressed.mp4",
		Format:      "mp4",
		BitrateKbps: 100,
		Audio:       true,
		Verbose:     true,
	}
	got := Build(req, mustProfile(t, "mp4"))

	found := false
	for i := 0; i < len(got)-1; i++ {
		if got[i] == "-loglevel" && got[i+1] == "info" {
			found = true
		}
	}
	if !found {
		t.Errorf("verbose Build() missing '-loglevel info': %v", got)
	}
}

func TestBuild_BitrateChangesOnlyBitrateArg(t *testing.T) {
	base := Request{
		SourcePath:  "a.mp4",
		OutputPath:  "a_compressed.mp4",
		Format:      "mp4",
		BitrateKbps: 2500,
		Audio:       true,
	}
	next := base
	next.BitrateKbps = 1250

	prof := mustProfile(t, "mp4")
	a, b := Build(base, prof), Build(next, prof)
	if len(a) != len(b) {
		t.Fatalf("arg count changed between attempts: %d vs %d", len(a), len(b))
	}
	diffs := 0
	for i := range a {
		if a[i] != b[i] {
			diffs++
			if a[i] != "2500k" || b[i] != "1250k" {
				t.Errorf("unexpected difference at %d: %q vs %q", i, a[i], b[i])
			}
		}
	}
	if diffs != 1 {
		t.Errorf("expected exactly one differing arg (the bitrate), got %d", diffs)
	}
}
