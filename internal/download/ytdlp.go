package download

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/cockroachdb/errors"
	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/ytget/ytpick/internal/config"
	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/model"
	"github.com/ytget/ytpick/internal/platform"
)

// ytdlpStatusFinished is the yt-dlp progress status of a completed file.
const ytdlpStatusFinished = "finished"

// YtdlpBackend drives the yt-dlp executable through go-ytdlp.
type YtdlpBackend struct {
	executable     string
	ffmpegLocation string
	muxer          bool
	autoInstall    bool
	interval       time.Duration
	log            zerolog.Logger

	installOnce sync.Once
	installErr  error
}

var _ Backend = (*YtdlpBackend)(nil)

// NewYtdlpBackend creates the yt-dlp backend. Muxing is enabled when ffmpeg
// is found at cfg.FFmpegPath.
func NewYtdlpBackend(cfg *config.Config, log zerolog.Logger) *YtdlpBackend {
	b := &YtdlpBackend{
		executable:  cfg.YtdlpPath,
		autoInstall: cfg.AutoInstall,
		interval:    cfg.ProgressInterval.Std(),
		log:         log,
	}
	if platform.FFmpegAvailable(cfg.FFmpegPath) {
		b.muxer = true
		// yt-dlp accepts a binary or a directory for --ffmpeg-location
		if cfg.FFmpegPath != "" && cfg.FFmpegPath != platform.FFmpegName {
			b.ffmpegLocation = cfg.FFmpegPath
		}
	}
	return b
}

func (b *YtdlpBackend) Name() string { return config.BackendYtdlp }

func (b *YtdlpBackend) Capabilities() formats.Capabilities {
	return formats.Capabilities{
		Muxer:       b.muxer,
		NeedsFFmpeg: true,
		Syntax:      formats.YtdlpSyntax{},
	}
}

// command returns a new yt-dlp command with the shared options applied.
func (b *YtdlpBackend) command(ctx context.Context) (*ytdlp.Command, error) {
	if err := b.ensureInstalled(ctx); err != nil {
		return nil, err
	}
	cmd := ytdlp.New().NoPlaylist()
	if b.executable != "" {
		cmd.SetExecutable(b.executable)
	}
	if b.ffmpegLocation != "" {
		cmd.FFmpegLocation(b.ffmpegLocation)
	}
	return cmd, nil
}

// ensureInstalled downloads yt-dlp once per process when auto-install is on.
func (b *YtdlpBackend) ensureInstalled(ctx context.Context) error {
	if !b.autoInstall || b.executable != "" {
		return nil
	}
	b.installOnce.Do(func() {
		b.log.Debug().Msg("installing yt-dlp")
		resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{})
		if err != nil {
			b.installErr = errors.Wrap(err, "install yt-dlp")
			return
		}
		b.log.Debug().Str("path", resolved.Executable).Str("version", resolved.Version).Msg("yt-dlp ready")
	})
	return b.installErr
}

// Probe runs yt-dlp with --dump-single-json and --skip-download.
func (b *YtdlpBackend) Probe(ctx context.Context, url string) (*model.ProbeResult, error) {
	cmd, err := b.command(ctx)
	if err != nil {
		return nil, err
	}
	res, err := cmd.SkipDownload().DumpSingleJSON().NoWarnings().Run(ctx, url)
	b.logCommand(res)
	if err != nil {
		return nil, runError(err, res)
	}
	return ParseProbeJSON([]byte(res.Stdout))
}

// Fetch downloads req.FormatID, merging into req.Container when ffmpeg is
// available.
func (b *YtdlpBackend) Fetch(ctx context.Context, req FetchRequest, onProgress model.ProgressFunc) (string, error) {
	cmd, err := b.command(ctx)
	if err != nil {
		return "", err
	}

	template := req.Template
	if template == "" {
		template = config.DefaultFilenameTemplate
	}
	cmd.ForceOverwrites().
		Format(req.FormatID).
		Output(filepath.Join(req.Dir, template))
	if b.muxer && req.Container != "" {
		cmd.MergeOutputFormat(req.Container)
	}

	var lastFile string
	cmd.ProgressFunc(b.interval, func(update ytdlp.ProgressUpdate) {
		if update.Filename != "" {
			lastFile = update.Filename
		}
		if onProgress != nil {
			onProgress(progressFromYtdlp(update))
		}
	})

	res, err := cmd.Run(ctx, req.URL)
	b.logCommand(res)
	if err != nil {
		return "", runError(err, res)
	}

	expected := filepath.Join(req.Dir, platform.SafeFilename(req.Title, req.Container))
	if res != nil {
		if info, err := res.GetExtractedInfo(); err == nil && len(info) > 0 && info[0].Filename != nil {
			expected = *info[0].Filename
		}
	}
	if lastFile != "" && !fileExists(expected) {
		expected = lastFile
	}
	return platform.FindDownloadedFile(expected)
}

func progressFromYtdlp(update ytdlp.ProgressUpdate) model.ProgressEvent {
	ev := model.NewByteProgress(int64(update.DownloadedBytes), int64(update.TotalBytes), update.Started)
	if eta := update.ETA(); eta > 0 {
		ev.ETA = eta
	}
	ev.Filename = update.Filename
	if string(update.Status) == ytdlpStatusFinished {
		ev.Status = model.ProgressFinished
	}
	return ev
}

func (b *YtdlpBackend) logCommand(res *ytdlp.Result) {
	if res == nil {
		return
	}
	b.log.Debug().
		Str("cmd", shellescape.QuoteCommand(append([]string{res.Executable}, res.Args...))).
		Int("exit", res.ExitCode).
		Msg("yt-dlp finished")
}

// runError attaches the last lines of yt-dlp's stderr to err.
func runError(err error, res *ytdlp.Result) error {
	if res == nil || strings.TrimSpace(res.Stderr) == "" {
		return err
	}
	lines := strings.Split(strings.TrimSpace(res.Stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); strings.HasPrefix(line, "ERROR:") {
			return errors.Wrap(err, strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")))
		}
	}
	return errors.Wrap(err, strings.TrimSpace(lines[len(lines)-1]))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// probeJSON is the subset of yt-dlp's info JSON read by Probe.
type probeJSON struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Formats []formatJSON  `json:"formats"`
	Type    string        `json:"_type"`
	Entries []interface{} `json:"entries"`
	formatJSON
}

type formatJSON struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Height         float64 `json:"height"`
	VideoCodec     string  `json:"vcodec"`
	AudioCodec     string  `json:"acodec"`
	FileSize       float64 `json:"filesize"`
	FileSizeApprox float64 `json:"filesize_approx"`
}

func (f formatJSON) stream() model.Stream {
	size := f.FileSize
	if size <= 0 {
		size = f.FileSizeApprox
	}
	return model.Stream{
		ID:         f.FormatID,
		Ext:        f.Ext,
		Height:     int(f.Height),
		VideoCodec: f.VideoCodec,
		AudioCodec: f.AudioCodec,
		FileSize:   int64(size),
	}
}

// ParseProbeJSON converts yt-dlp's --dump-single-json output into a probe
// result. Single-format extractors that report no format list yield one
// stream built from the top-level fields.
func ParseProbeJSON(data []byte) (*model.ProbeResult, error) {
	var info probeJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "parse yt-dlp output")
	}
	if info.Type == "playlist" {
		return nil, errors.Newf("playlists are not supported (%d entries)", len(info.Entries))
	}

	result := &model.ProbeResult{ID: info.ID, Title: info.Title}
	for _, f := range info.Formats {
		result.Streams = append(result.Streams, f.stream())
	}
	if len(result.Streams) == 0 && info.FormatID != "" {
		result.Streams = append(result.Streams, info.formatJSON.stream())
	}
	return result, nil
}
