package cli

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ytget/ytpick/internal/config"
	"github.com/ytget/ytpick/internal/download"
	"github.com/ytget/ytpick/internal/formats"
	"github.com/ytget/ytpick/internal/logger"
	"github.com/ytget/ytpick/internal/remux"
	"github.com/ytget/ytpick/internal/ui"
)

// Streams are the process streams a run reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process stdin, stdout and stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// options holds the flag values of one invocation.
type options struct {
	url            string
	quality        string
	dir            string
	backend        string
	strategy       string
	ffmpegLocation string
	logFormat      string
	noRemux        bool
	verbose        bool
	noColor        bool
}

// Execute runs the root command with args and returns the exit code.
func Execute(ctx context.Context, version string, args []string, s Streams) int {
	cmd := NewRootCommand(version, s)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	code := ExitCode(err)

	var exitErr *ExitError
	switch {
	case code == ExitCancelled:
		fmt.Fprintln(s.Out, CancelledMessage)
	case err != nil && !errors.As(err, &exitErr):
		fmt.Fprintf(s.Err, "Error: %v\n", err)
	}
	return code
}

// NewRootCommand builds the ytpick command.
func NewRootCommand(version string, s Streams) *cobra.Command {
	return newRootCommand(version, s, &options{})
}

func newRootCommand(version string, s Streams, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ytpick [url]",
		Short: "Download a video in the quality you pick",
		Long: "ytpick lists the qualities available for a video URL, lets you pick one\n" +
			"by label, by number or interactively, and downloads it with progress.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.url == "" && len(args) == 1 {
				opts.url = args[0]
			}
			return opts.run(cmd.Context(), cmd.Flags(), s)
		},
	}
	cmd.SetIn(s.In)
	cmd.SetOut(s.Out)
	cmd.SetErr(s.Err)

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "", "video URL (prompted for when empty)")
	flags.StringVar(&opts.quality, "quality", "", "quality label substring such as 720p, or a 1-based option number")
	flags.StringVarP(&opts.dir, "dir", "d", "", "download directory (default from "+config.KeyDownloadDir+" or "+config.DefaultDownloadDir+")")
	flags.StringVar(&opts.backend, "backend", "", "download backend: ytdlp, ytget or kkdai")
	flags.StringVar(&opts.strategy, "strategy", "", "format listing strategy: merge or progressive")
	flags.StringVar(&opts.ffmpegLocation, "ffmpeg-location", "", "ffmpeg binary or the directory containing it")
	flags.BoolVar(&opts.noRemux, "no-remux", false, "keep the file in the container the backend produced")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	return cmd
}

// apply copies explicitly set flags over cfg.
func (o *options) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("quality") {
		cfg.Quality = o.quality
	}
	if flags.Changed("dir") {
		cfg.DownloadDir = o.dir
	}
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("strategy") {
		cfg.Strategy = o.strategy
	}
	if flags.Changed("ffmpeg-location") {
		cfg.FFmpegPath = o.ffmpegLocation
	}
	if o.noRemux {
		cfg.Remux = false
	}
	if o.verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if o.noColor {
		cfg.NoColor = true
	}
}

func (o *options) run(ctx context.Context, flags *pflag.FlagSet, s Streams) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.apply(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg, s.Err)
	if err != nil {
		return err
	}
	cfgLog := logger.WithComponent(log, logger.ComponentConfig)
	cfgLog.Debug().
		Str("dir", cfg.DownloadDir).
		Str("backend", cfg.Backend).
		Str("strategy", cfg.Strategy).
		Str("container", cfg.Container).
		Bool("remux", cfg.Remux).
		Msg("configuration loaded")

	// some extraction libraries log through the standard logger
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger.StdWriter(logger.WithComponent(log, logger.ComponentBackend), zerolog.DebugLevel))

	svc, err := newService(cfg, log, s)
	if err != nil {
		return err
	}

	out, color := userOutput(s.Out, cfg.NoColor)
	svc.SetRenderer(ui.NewProgressRenderer(out, color))

	app := &App{
		Downloader: svc,
		Prompter:   ui.NewLinePrompter(s.In, out),
		Out:        out,
		Log:        logger.WithComponent(log, logger.ComponentApp),
	}
	err = app.Run(ctx, o.url, cfg.Quality)

	if task := svc.Task(); task != nil {
		log.Debug().
			Str("task", task.ID).
			Str("title", task.GetDisplayTitle()).
			Str("status", task.Status.String()).
			Str("eta", task.GetETAString()).
			Str("file", task.OutputPath).
			Dur("elapsed", task.Elapsed()).
			Msg("run finished")
	}
	return err
}

// newService builds the download service for cfg.
func newService(cfg *config.Config, log zerolog.Logger, s Streams) (*download.Service, error) {
	backend, err := download.NewBackend(cfg.Backend, cfg, logger.WithComponent(log, logger.ComponentBackend))
	if err != nil {
		return nil, err
	}
	strategy, err := formats.ByName(cfg.Strategy, cfg.Container)
	if err != nil {
		return nil, err
	}

	out, _ := userOutput(s.Out, cfg.NoColor)
	svc := download.NewService(cfg, backend, strategy, out, logger.WithComponent(log, logger.ComponentDownload))

	if cfg.Remux && !backend.Capabilities().Muxer {
		r, err := remux.NewService(cfg.FFmpegPath, logger.WithComponent(log, logger.ComponentRemux))
		if err != nil {
			log.Debug().Err(err).Msg("remux disabled")
		} else {
			svc.SetRemuxer(r)
		}
	}
	return svc, nil
}

func newLogger(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return zerolog.Nop(), err
	}

	lc := &logger.Config{
		Level:   level,
		Format:  format,
		Output:  w,
		NoColor: cfg.NoColor || !isTerminal(w),
	}
	if w == os.Stderr {
		lc.Output = ui.Stderr(lc.NoColor)
	}
	return logger.New(lc), nil
}

// userOutput picks the writer for user-facing text and whether it may
// carry colour.
func userOutput(w io.Writer, noColor bool) (io.Writer, bool) {
	color := !noColor && isTerminal(w)
	if w == os.Stdout {
		return ui.Stdout(!color), color
	}
	return w, color
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
