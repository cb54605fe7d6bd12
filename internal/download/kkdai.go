package download

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/ytget/ytpick/internal/config"
	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
	"github.com/ytget/ytpick/internal/platform"
)

// partSuffix marks a file still being written.
const partSuffix = ".part"

// KkdaiBackend uses github.com/kkdai/youtube/v2 and streams the chosen format
// to disk itself.
type KkdaiBackend struct {
	client   *youtube.Client
	interval time.Duration
	log      zerolog.Logger
}

var _ Backend = (*KkdaiBackend)(nil)

// NewKkdaiBackend creates the kkdai backend.
func NewKkdaiBackend(cfg *config.Config, log zerolog.Logger) *KkdaiBackend {
	return &KkdaiBackend{
		client:   &youtube.Client{},
		interval: cfg.ProgressInterval.Std(),
		log:      log,
	}
}

func (b *KkdaiBackend) Name() string { return config.BackendKkdai }

func (b *KkdaiBackend) Capabilities() formats.Capabilities {
	return formats.Capabilities{Syntax: formats.NativeSyntax{}}
}

// Probe fetches the video metadata.
func (b *KkdaiBackend) Probe(ctx context.Context, url string) (*model.ProbeResult, error) {
	video, err := b.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return &model.ProbeResult{
		ID:      video.ID,
		Title:   video.Title,
		Streams: kkdaiStreams(video.Formats),
	}, nil
}

// Fetch resolves the selector against the video's formats and streams the
// chosen one to <dir>/<title>.<ext>.
func (b *KkdaiBackend) Fetch(ctx context.Context, req FetchRequest, onProgress model.ProgressFunc) (string, error) {
	video, err := b.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return "", err
	}

	streams := kkdaiStreams(video.Formats)
	idx, err := PickStream(streams, req.FormatID)
	if err != nil {
		return "", err
	}
	format := &video.Formats[idx]
	chosen := streams[idx]

	title := video.Title
	if title == "" {
		title = req.Title
	}
	path := filepath.Join(req.Dir, platform.SafeFilename(model.DisplayTitle(title), chosen.Ext))
	b.log.Debug().Int("itag", format.ItagNo).Str("mime", format.MimeType).Str("path", path).Msg("streaming format")

	stream, size, err := b.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", errors.Wrap(err, "starting stream")
	}
	defer stream.Close()

	if err := writeFile(path, newProgressReader(stream, size, b.interval, onProgress)); err != nil {
		return "", err
	}
	return path, nil
}

// writeFile copies r to path through a temporary .part file.
func writeFile(path string, r io.Reader) error {
	tmp := path + partSuffix
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "opening output file")
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "download failed")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "closing output file")
	}
	return errors.Wrap(os.Rename(tmp, path), "finalizing output file")
}

func kkdaiStreams(list youtube.FormatList) []model.Stream {
	streams := make([]model.Stream, 0, len(list))
	for _, f := range list {
		s := streamFromMime(f.ItagNo, f.MimeType, f.QualityLabel, f.Height, f.ContentLength)
		// mime types without codecs: fall back to the channel count
		if s.AudioCodec == "" {
			if f.AudioChannels > 0 {
				s.AudioCodec = "unknown"
			} else {
				s.AudioCodec = model.CodecNone
			}
		}
		streams = append(streams, s)
	}
	return streams
}
