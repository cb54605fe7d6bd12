package download

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
)

// ErrNoMatchingStream is returned when a native selector matches nothing.
var ErrNoMatchingStream = errors.New("no stream matches the selected format")

// PickStream resolves a native selector ("best", "height<=N", "itag=N")
// against probed streams and returns the index of the chosen one. Streams
// carrying both audio and video are preferred; video-only streams are used
// when nothing muxed qualifies.
func PickStream(streams []model.Stream, selector string) (int, error) {
	sel, err := formats.ParseNativeSelector(selector)
	if err != nil {
		return -1, err
	}

	if sel.Kind == formats.SelectItag {
		id := strconv.Itoa(sel.Value)
		for i, s := range streams {
			if s.ID == id {
				return i, nil
			}
		}
		return -1, errors.Wrapf(ErrNoMatchingStream, "itag %d", sel.Value)
	}

	limit := 0
	if sel.Kind == formats.SelectMaxHeight {
		limit = sel.Value
	}

	if i := tallest(streams, limit, model.Stream.IsMuxed); i >= 0 {
		return i, nil
	}
	if i := tallest(streams, limit, model.Stream.HasVideo); i >= 0 {
		return i, nil
	}
	return -1, errors.Wrapf(ErrNoMatchingStream, "%q", selector)
}

// tallest returns the index of the tallest stream accepted by keep whose
// height does not exceed limit (0 means no limit). Larger files win ties.
func tallest(streams []model.Stream, limit int, keep func(model.Stream) bool) int {
	best := -1
	for i, s := range streams {
		if !keep(s) || s.Height <= 0 || (limit > 0 && s.Height > limit) {
			continue
		}
		if best < 0 || s.Height > streams[best].Height ||
			(s.Height == streams[best].Height && s.FileSize > streams[best].FileSize) {
			best = i
		}
	}
	return best
}

// streamFromMime builds a Stream from the fields the pure-Go clients expose.
func streamFromMime(id int, mime, qualityLabel string, height int, size int64) model.Stream {
	ext, vcodec, acodec := formats.ParseMime(mime)
	if height <= 0 {
		height = formats.ParseHeight(qualityLabel)
	}
	return model.Stream{
		ID:         strconv.Itoa(id),
		Ext:        ext,
		Height:     height,
		VideoCodec: vcodec,
		AudioCodec: acodec,
		FileSize:   size,
	}
}
