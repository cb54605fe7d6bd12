package download

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/ytpick/internal/config"
	"github.com/ytget/ytpick/internal/logger"
	"github.com/ytget/ytpick/internal/model"
	"github.com/ytget/ytpick/internal/platform"
)

const sampleInfoJSON = `{
  "id": "dQw4w9WgXcQ",
  "title": "Never Gonna Give You Up",
  "formats": [
    {"format_id": "140", "ext": "m4a", "height": null, "vcodec": "none", "acodec": "mp4a.40.2", "filesize": 3433514},
    {"format_id": "18", "ext": "mp4", "height": 360, "vcodec": "avc1.42001E", "acodec": "mp4a.40.2", "filesize_approx": 12000000.5},
    {"format_id": "137", "ext": "mp4", "height": 1080, "vcodec": "avc1.640028", "acodec": "none", "filesize": 80000000}
  ]
}`

func TestParseProbeJSON(t *testing.T) {
	result, err := ParseProbeJSON([]byte(sampleInfoJSON))
	if err != nil {
		t.Fatalf("ParseProbeJSON() error = %v", err)
	}

	if result.ID != "dQw4w9WgXcQ" || result.Title != "Never Gonna Give You Up" {
		t.Errorf("ParseProbeJSON() = %+v", result)
	}
	if len(result.Streams) != 3 {
		t.Fatalf("got %d streams, expected 3", len(result.Streams))
	}

	audio := result.Streams[0]
	if audio.HasVideo() || audio.Height != 0 || audio.FileSize != 3433514 {
		t.Errorf("audio stream = %+v", audio)
	}

	progressive := result.Streams[1]
	expected := model.Stream{ID: "18", Ext: "mp4", Height: 360, VideoCodec: "avc1.42001E", AudioCodec: "mp4a.40.2", FileSize: 12000000}
	if progressive != expected {
		t.Errorf("stream = %+v, expected %+v", progressive, expected)
	}
}

func TestParseProbeJSON_SingleFormat(t *testing.T) {
	data := `{"id": "x", "title": "Clip", "format_id": "hls-720", "ext": "mp4", "height": 720, "vcodec": "avc1", "acodec": "mp4a"}`

	result, err := ParseProbeJSON([]byte(data))
	if err != nil {
		t.Fatalf("ParseProbeJSON() error = %v", err)
	}
	if len(result.Streams) != 1 || result.Streams[0].ID != "hls-720" || result.Streams[0].Height != 720 {
		t.Errorf("Streams = %+v", result.Streams)
	}
}

func TestParseProbeJSON_Errors(t *testing.T) {
	if _, err := ParseProbeJSON([]byte("WARNING: not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := ParseProbeJSON([]byte(`{"_type": "playlist", "entries": [{}, {}]}`)); err == nil {
		t.Error("expected error for playlist output")
	}
}

func TestRunError(t *testing.T) {
	base := errors.New("exit status 1")

	if got := runError(base, nil); got != base {
		t.Errorf("runError(nil result) = %v, expected the original error", got)
	}

	res := &ytdlp.Result{Stderr: "[youtube] abc: Downloading webpage\nERROR: [youtube] abc: Video unavailable\n"}
	got := runError(base, res)
	if got.Error() != "[youtube] abc: Video unavailable: exit status 1" {
		t.Errorf("runError() = %q", got.Error())
	}
	if !errors.Is(got, base) {
		t.Error("runError() should wrap the original error")
	}

	res = &ytdlp.Result{Stderr: "something odd\n"}
	if got := runError(base, res); got.Error() != "something odd: exit status 1" {
		t.Errorf("runError() = %q", got.Error())
	}
}

func TestYtdlpBackend_Capabilities(t *testing.T) {
	b := &YtdlpBackend{muxer: true}
	caps := b.Capabilities()

	if !caps.Muxer || !caps.NeedsFFmpeg {
		t.Errorf("Capabilities() = %+v", caps)
	}
	if caps.Syntax.Best(true) != "bestvideo+bestaudio/best" {
		t.Errorf("Syntax.Best(true) = %s", caps.Syntax.Best(true))
	}
}

func TestNewYtdlpBackend_FFmpegDetection(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not used on windows")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, platform.FFmpegName), []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		location string
		muxer    bool
		passed   string
	}{
		{"directory with ffmpeg", dir, true, dir},
		{"missing binary", filepath.Join(dir, "nope"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.FFmpegPath = tt.location
			b := NewYtdlpBackend(cfg, logger.Nop())

			if b.Capabilities().Muxer != tt.muxer {
				t.Errorf("Capabilities().Muxer = %v, expected %v", b.Capabilities().Muxer, tt.muxer)
			}
			if b.ffmpegLocation != tt.passed {
				t.Errorf("ffmpegLocation = %q, expected %q", b.ffmpegLocation, tt.passed)
			}
		})
	}
}
