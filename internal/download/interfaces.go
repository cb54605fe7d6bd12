package download

import (
	"context"

	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
)

// Backend is the extraction/download collaborator.
type Backend interface {
	// Name returns the configuration name of the backend.
	Name() string
	// Probe fetches metadata only. It must not download media.
	Probe(ctx context.Context, url string) (*model.ProbeResult, error)
	// Fetch downloads the selected format and returns the written file path.
	Fetch(ctx context.Context, req FetchRequest, onProgress model.ProgressFunc) (string, error)
	// Capabilities reports muxing support and the selector dialect.
	Capabilities() formats.Capabilities
}

// FetchRequest describes one download.
type FetchRequest struct {
	URL       string
	FormatID  string
	Dir       string
	Template  string // yt-dlp style output template, e.g. "%(title)s.%(ext)s"
	Title     string
	Container string // final container when the backend can merge
}

// Downloader defines the interface for the download service.
type Downloader interface {
	Probe(ctx context.Context, url string) (*model.VideoInfo, error)
	Download(ctx context.Context, url, formatID, title string) bool
}

// ProgressRenderer draws progress events on the terminal.
type ProgressRenderer interface {
	Handle(ev model.ProgressEvent)
	// Break ends an open status line.
	Break()
}
