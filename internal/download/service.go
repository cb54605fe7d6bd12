package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/ytpick/internal/config"
	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
	"github.com/ytget/ytpick/internal/platform"
	"github.com/ytget/ytpick/internal/remux"
)

// User-facing messages
const (
	FFmpegWarning = "Warning: ffmpeg not found. Install ffmpeg for better quality."
)

// Service handles probe and download operations for one run
type Service struct {
	cfg      *config.Config
	backend  Backend
	strategy formats.Strategy
	remuxer  remux.Remuxer
	out      io.Writer
	log      zerolog.Logger

	renderer ProgressRenderer // terminal updates
	task     *model.DownloadTask
}

var _ Downloader = (*Service)(nil)

// NewService creates a download service. out receives user-facing messages.
func NewService(cfg *config.Config, backend Backend, strategy formats.Strategy, out io.Writer, log zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		backend:  backend,
		strategy: strategy,
		out:      out,
		log:      log,
	}
}

// SetRemuxer enables post-download container conversion.
func (s *Service) SetRemuxer(r remux.Remuxer) {
	s.remuxer = r
}

// SetRenderer sets the renderer receiving progress events
func (s *Service) SetRenderer(r ProgressRenderer) {
	s.renderer = r
}

// Task returns the task of the last Download call, or nil.
func (s *Service) Task() *model.DownloadTask {
	return s.task
}

// Probe queries the backend for metadata and lists format options with the
// configured strategy. The returned options may be empty.
func (s *Service) Probe(ctx context.Context, url string) (*model.VideoInfo, error) {
	caps := s.backend.Capabilities()
	if s.strategy.Name() == formats.StrategyMerge && caps.NeedsFFmpeg && !caps.Muxer {
		fmt.Fprintln(s.out, FFmpegWarning)
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout.Std())
	defer cancel()

	started := time.Now()
	probe, err := s.backend.Probe(probeCtx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ProbeError{URL: url, Err: err}
	}

	options := s.strategy.List(probe, caps)
	s.log.Debug().
		Str("backend", s.backend.Name()).
		Str("strategy", s.strategy.Name()).
		Int("streams", len(probe.Streams)).
		Int("options", len(options)).
		Dur("took", time.Since(started)).
		Msg("probe finished")

	return &model.VideoInfo{
		Title:   model.DisplayTitle(probe.Title),
		Formats: options,
	}, nil
}

// Download fetches formatID into the configured directory. Failures are
// reported on the output writer and turned into false. A cancelled context
// also yields false without a report.
func (s *Service) Download(ctx context.Context, url, formatID, title string) bool {
	title = model.DisplayTitle(title)
	dir := s.cfg.DownloadDir

	fmt.Fprintf(s.out, "\nDownloading: %s\n", title)
	fmt.Fprintf(s.out, "Saving to: %s\n\n", dir)

	task := model.NewDownloadTask(url, formatID, title)
	s.task = task
	log := s.log.With().Str("task", task.ID).Logger()

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		task.Fail(err)
		s.report(err)
		return false
	}

	req := FetchRequest{
		URL:       url,
		FormatID:  formatID,
		Dir:       dir,
		Template:  s.cfg.FilenameTemplate,
		Title:     title,
		Container: s.cfg.Container,
	}

	log.Debug().Str("backend", s.backend.Name()).Str("format", formatID).Msg("fetch started")
	path, err := s.backend.Fetch(ctx, req, s.progress(task))
	if err != nil {
		if ctx.Err() != nil {
			s.interrupt(task)
			return false
		}
		task.Fail(err)
		s.report(err)
		return false
	}

	if s.remuxer != nil && remux.NeedsRemux(path, s.cfg.Container) {
		remuxed, err := s.remuxer.Remux(ctx, path, s.cfg.Container, s.progress(task))
		switch {
		case ctx.Err() != nil:
			s.interrupt(task)
			return false
		case err != nil:
			log.Warn().Err(err).Str("file", path).Msg("remux failed, keeping original file")
		default:
			path = remuxed
		}
	}

	if info, err := os.Stat(path); err == nil {
		task.FileSize = info.Size()
	}
	task.Complete(path)
	s.emit(model.ProgressEvent{
		Status:          model.ProgressFinished,
		Percent:         100,
		ETA:             -1,
		DownloadedBytes: task.FileSize,
		TotalBytes:      task.FileSize,
		Filename:        path,
	})

	log.Debug().
		Str("file", path).
		Str("status", task.Status.String()).
		Dur("elapsed", task.Elapsed()).
		Msg("download finished")
	return true
}

// progress folds events into task and forwards them. Backend "finished"
// events are dropped; the service reports completion once the final path is
// known.
func (s *Service) progress(task *model.DownloadTask) model.ProgressFunc {
	return func(ev model.ProgressEvent) {
		if ev.Status == model.ProgressFinished {
			s.log.Debug().Str("file", ev.Filename).Msg("backend finished a file")
			return
		}
		task.Apply(ev)
		s.emit(ev)
	}
}

func (s *Service) emit(ev model.ProgressEvent) {
	if s.renderer != nil {
		s.renderer.Handle(ev)
	}
}

// interrupt stops task after cancellation.
func (s *Service) interrupt(task *model.DownloadTask) {
	if task.Status.IsActive() {
		s.log.Debug().Str("task", task.ID).Int("percent", task.Percent).Msg("download interrupted")
	}
	task.Stop()
	s.breakLine()
}

// breakLine ends an open progress line.
func (s *Service) breakLine() {
	if s.renderer != nil {
		s.renderer.Break()
	}
}

func (s *Service) report(err error) {
	s.breakLine()
	fmt.Fprintf(s.out, "\nError during download: %v\n", err)
}
