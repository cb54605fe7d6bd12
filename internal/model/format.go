package model

import "strings"

// DefaultTitle replaces a missing video title.
const DefaultTitle = "video"

// CodecNone is the codec value backends use for an absent component.
const CodecNone = "none"

// Stream is one media stream as reported by a backend probe.
type Stream struct {
	ID         string // backend-native identifier (yt-dlp format_id, itag)
	Ext        string // container extension without dot
	Height     int    // pixel height, 0 if unknown
	VideoCodec string // "none" for audio-only streams, empty if unknown
	AudioCodec string // "none" for video-only streams, empty if unknown
	FileSize   int64  // bytes, 0 if unknown
}

// HasVideo reports whether the stream carries a video component. Streams with
// an unknown video codec count as video.
func (s Stream) HasVideo() bool {
	return s.VideoCodec != CodecNone
}

// IsMuxed reports whether both components are known to be present.
func (s Stream) IsMuxed() bool {
	return s.VideoCodec != "" && s.VideoCodec != CodecNone &&
		s.AudioCodec != "" && s.AudioCodec != CodecNone
}

// ProbeResult is the metadata returned by a backend without downloading media.
type ProbeResult struct {
	ID      string
	Title   string
	Streams []Stream
}

// FormatOption is one choice presented to the user.
type FormatOption struct {
	FormatID   string // handed back to the backend untouched
	Resolution string // display label, e.g. "720p" or "best (1080p)"
	Height     int
	FileSize   int64 // bytes, 0 if unknown
}

// VideoInfo is the title plus the options in presentation order.
type VideoInfo struct {
	Title   string
	Formats []FormatOption
}

// DisplayTitle returns the title or DefaultTitle when it is blank.
func DisplayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}
