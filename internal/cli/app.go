package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/ytget/ytpick/internal/download"
	"github.com/ytget/ytpick/internal/selection"
)

// User-facing messages
const (
	URLPrompt         = "Enter YouTube video URL: "
	FetchingMessage   = "\nFetching video information..."
	CancelledMessage  = "\n\nDownload cancelled by user"
	URLRequiredFormat = "Error: %s\n"
)

// App runs the linear flow: URL, probe, quality selection, download.
type App struct {
	Downloader download.Downloader
	Prompter   selection.Prompter
	Out        io.Writer
	Log        zerolog.Logger
}

// Run executes one download. The returned error is nil on success, the
// context error on interruption, or an *ExitError after the problem has been
// reported on Out.
func (a *App) Run(ctx context.Context, url, quality string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		line, err := a.Prompter.Prompt(ctx, URLPrompt)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, io.EOF) {
				err = errors.Wrap(err, "read URL")
				fmt.Fprintf(a.Out, "\nError: %v\n", err)
				return &ExitError{Code: ExitFailure, Err: err}
			}
		}
		url = strings.TrimSpace(line)
	}
	if url == "" {
		fmt.Fprintf(a.Out, URLRequiredFormat, ErrURLRequired)
		return &ExitError{Code: ExitFailure, Err: ErrURLRequired}
	}

	fmt.Fprintln(a.Out, FetchingMessage)
	info, err := a.Downloader.Probe(ctx, url)
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.Out, "\nVideo: %s\n", info.Title)

	formatID, err := selection.Select(ctx, info.Formats, quality, a.Prompter, a.Out)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.Log.Debug().Str("url", url).Str("format", formatID).Msg("format selected")

	if !a.Downloader.Download(ctx, url, formatID, info.Title) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ExitError{Code: ExitFailure, Err: ErrDownloadFailed}
	}
	return nil
}

// fail reports err unless the run was interrupted.
func (a *App) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintf(a.Out, "\nError: %v\n", err)
	return &ExitError{Code: ExitFailure, Err: err}
}
