package formats

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ytget/ytpick/internal/model"
)

var heightRe = regexp.MustCompile(`([0-9]{3,4})p`)

// ParseHeight extracts the pixel height from a quality label like "720p60".
func ParseHeight(label string) int {
	m := heightRe.FindStringSubmatch(label)
	if len(m) >= 2 {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	return 0
}

// ParseMime splits a mime type such as `video/mp4; codecs="avc1.4d401e, mp4a.40.2"`
// into the container extension and the video and audio codecs. Absent
// components are reported as model.CodecNone.
func ParseMime(mime string) (ext, videoCodec, audioCodec string) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	base, params, _ := strings.Cut(mime, ";")
	kind, sub, _ := strings.Cut(strings.TrimSpace(base), "/")
	ext = extFromSubtype(sub)
	if kind == "audio" && ext == "mp4" {
		ext = "m4a"
	}

	var codecs []string
	if _, raw, ok := strings.Cut(params, "codecs="); ok {
		raw = strings.Trim(strings.TrimSpace(raw), `"`)
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				codecs = append(codecs, c)
			}
		}
	}

	switch kind {
	case "audio":
		videoCodec = model.CodecNone
		if len(codecs) > 0 {
			audioCodec = codecs[0]
		}
	case "video":
		switch len(codecs) {
		case 0:
		case 1:
			videoCodec, audioCodec = codecs[0], model.CodecNone
		default:
			videoCodec, audioCodec = codecs[0], codecs[1]
		}
	}
	return ext, videoCodec, audioCodec
}

func extFromSubtype(sub string) string {
	switch sub {
	case "", "octet-stream":
		return ""
	case "3gpp":
		return "3gp"
	case "x-matroska":
		return "mkv"
	case "quicktime":
		return "mov"
	}
	return sub
}
