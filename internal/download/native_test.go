package download

import (
	"errors"
	"testing"

	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
)

func nativeStreams() []model.Stream {
	return []model.Stream{
		{ID: "18", Ext: "mp4", Height: 360, VideoCodec: "avc1", AudioCodec: "mp4a", FileSize: 100},
		{ID: "137", Ext: "mp4", Height: 1080, VideoCodec: "avc1", AudioCodec: "none"},
		{ID: "22", Ext: "mp4", Height: 720, VideoCodec: "avc1", AudioCodec: "mp4a", FileSize: 200},
		{ID: "43", Ext: "webm", Height: 720, VideoCodec: "vp8", AudioCodec: "vorbis", FileSize: 300},
		{ID: "140", Ext: "m4a", VideoCodec: "none", AudioCodec: "mp4a"},
	}
}

func TestPickStream(t *testing.T) {
	tests := []struct {
		selector string
		expected string
	}{
		{"best", "43"},        // tallest muxed, larger file wins the 720p tie
		{"", "43"},            // empty means best
		{"height<=480", "18"}, // muxed under the limit
		{"height<=2000", "43"},
		{"itag=137", "137"}, // exact itag even when video-only
		{"ITAG=140", "140"},
	}

	streams := nativeStreams()
	for _, tt := range tests {
		idx, err := PickStream(streams, tt.selector)
		if err != nil {
			t.Errorf("PickStream(%q) error = %v", tt.selector, err)
			continue
		}
		if streams[idx].ID != tt.expected {
			t.Errorf("PickStream(%q) = %s, expected %s", tt.selector, streams[idx].ID, tt.expected)
		}
	}
}

func TestPickStream_FallsBackToVideoOnly(t *testing.T) {
	streams := []model.Stream{
		{ID: "137", Ext: "mp4", Height: 1080, VideoCodec: "avc1", AudioCodec: "none"},
		{ID: "136", Ext: "mp4", Height: 720, VideoCodec: "avc1", AudioCodec: "none"},
	}

	idx, err := PickStream(streams, "height<=720")
	if err != nil || streams[idx].ID != "136" {
		t.Errorf("PickStream() = %d, %v, expected 136", idx, err)
	}
}

func TestPickStream_Errors(t *testing.T) {
	streams := nativeStreams()

	if _, err := PickStream(streams, "itag=999"); !errors.Is(err, ErrNoMatchingStream) {
		t.Errorf("PickStream(itag=999) error = %v, expected ErrNoMatchingStream", err)
	}
	if _, err := PickStream(streams, "height<=100"); !errors.Is(err, ErrNoMatchingStream) {
		t.Errorf("PickStream(height<=100) error = %v, expected ErrNoMatchingStream", err)
	}
	if _, err := PickStream(streams, "bestvideo+bestaudio"); !errors.Is(err, formats.ErrBadSelector) {
		t.Errorf("PickStream(yt-dlp expression) error = %v, expected ErrBadSelector", err)
	}
}

func TestStreamFromMime(t *testing.T) {
	s := streamFromMime(22, `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, "720p", 0, 1234)

	if s.ID != "22" || s.Ext != "mp4" || s.Height != 720 || s.FileSize != 1234 {
		t.Errorf("streamFromMime() = %+v", s)
	}
	if !s.IsMuxed() {
		t.Errorf("expected muxed stream, got %+v", s)
	}

	audio := streamFromMime(140, `audio/mp4; codecs="mp4a.40.2"`, "", 0, 0)
	if audio.HasVideo() || audio.Ext != "m4a" {
		t.Errorf("audio stream = %+v", audio)
	}
}
