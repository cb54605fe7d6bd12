package download

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytpick/internal/config"
	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
	"github.com/ytget/ytpick/internal/platform"
)

// YtgetBackend uses the pure-Go github.com/ytget/ytdlp/v2 client. It cannot
// merge streams, so selectors are limited to the native dialect.
type YtgetBackend struct {
	interval time.Duration
	log      zerolog.Logger
}

var _ Backend = (*YtgetBackend)(nil)

// NewYtgetBackend creates the ytget backend.
func NewYtgetBackend(cfg *config.Config, log zerolog.Logger) *YtgetBackend {
	return &YtgetBackend{
		interval: cfg.ProgressInterval.Std(),
		log:      log,
	}
}

func (b *YtgetBackend) Name() string { return config.BackendYtget }

func (b *YtgetBackend) Capabilities() formats.Capabilities {
	return formats.Capabilities{Syntax: formats.NativeSyntax{}}
}

// Probe resolves the video page and lists its formats.
func (b *YtgetBackend) Probe(ctx context.Context, url string) (*model.ProbeResult, error) {
	_, info, err := ytdlp.New().ResolveURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.New("no video information returned")
	}

	result := &model.ProbeResult{ID: info.ID, Title: info.Title}
	for _, f := range info.Formats {
		result.Streams = append(result.Streams, streamFromMime(f.Itag, f.MimeType, f.Quality, 0, f.Size))
	}
	return result, nil
}

// Fetch downloads into req.Dir and locates the file the client wrote.
func (b *YtgetBackend) Fetch(ctx context.Context, req FetchRequest, onProgress model.ProgressFunc) (string, error) {
	if _, err := formats.ParseNativeSelector(req.FormatID); err != nil {
		return "", err
	}

	started := time.Now()
	report := throttle(b.interval, onProgress)
	dl := ytdlp.New().
		WithFormat(req.FormatID, "").
		WithOutputPath(req.Dir).
		WithProgress(func(p ytdlp.Progress) {
			ev := model.NewByteProgress(p.DownloadedSize, p.TotalSize, started)
			if p.TotalSize <= 0 && p.Percent > 0 {
				ev.Percent = p.Percent
			}
			report(ev)
		})

	info, err := dl.Download(ctx, req.URL)
	if err != nil {
		return "", err
	}

	title := req.Title
	if info != nil && info.Title != "" {
		title = info.Title
	}
	expected := filepath.Join(req.Dir, platform.SafeFilename(model.DisplayTitle(title), req.Container))
	b.log.Debug().Str("expected", expected).Msg("locating downloaded file")
	return platform.FindDownloadedFile(expected)
}
