// Package selection resolves a quality selector to one format identifier.
package selection

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/ytget/ytpick/internal/model"
)

var (
	// ErrNoFormats is returned before any prompting when there is nothing to choose from.
	ErrNoFormats = errors.New("no suitable formats found")
	// ErrInputClosed is returned when input ends while waiting for a choice.
	ErrInputClosed = errors.New("input closed before a quality was selected")
)

// Prompt is the label shown when asking for an option number.
const Prompt = "\nSelect quality (enter number): "

// Prompter reads one line of user input after printing label.
// It returns io.EOF when input is exhausted and ctx.Err() when ctx ends first.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

// Match resolves selector without user interaction. A case-insensitive
// substring match against the resolution labels is tried first, in list
// order; then selector is read as a 1-based index. ok is false when neither
// resolves.
func Match(options []model.FormatOption, selector string) (formatID string, ok bool, err error) {
	if len(options) == 0 {
		return "", false, ErrNoFormats
	}
	if selector == "" {
		return "", false, nil
	}

	needle := strings.ToLower(selector)
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Resolution), needle) {
			return o.FormatID, true, nil
		}
	}

	if o, found := byIndex(options, selector); found {
		return o.FormatID, true, nil
	}
	return "", false, nil
}

// Select runs Match and falls back to an interactive prompt loop on p. The
// loop re-prompts on non-numeric or out-of-range input and stops when ctx is
// cancelled or input ends.
func Select(ctx context.Context, options []model.FormatOption, selector string, p Prompter, w io.Writer) (string, error) {
	formatID, ok, err := Match(options, selector)
	if err != nil {
		return "", err
	}
	if ok {
		return formatID, nil
	}

	if selector != "" {
		fmt.Fprintf(w, "Quality '%s' not found. Available options:\n", selector)
	}
	PrintOptions(w, options)

	for {
		line, err := p.Prompt(ctx, Prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			if errors.Is(err, io.EOF) {
				return "", ErrInputClosed
			}
			return "", errors.Wrap(err, "read selection")
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			fmt.Fprintln(w, "\nInvalid input. Please enter a number.")
			continue
		}
		if n < 1 || n > len(options) {
			fmt.Fprintf(w, "Please enter a number between 1 and %d\n", len(options))
			continue
		}
		return options[n-1].FormatID, nil
	}
}

// PrintOptions writes the numbered option list.
func PrintOptions(w io.Writer, options []model.FormatOption) {
	fmt.Fprintln(w, "\nAvailable video qualities:")
	for i, o := range options {
		if o.FileSize > 0 {
			fmt.Fprintf(w, "%d. %s (%s)\n", i+1, o.Resolution, humanize.Bytes(uint64(o.FileSize)))
			continue
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, o.Resolution)
	}
}

func byIndex(options []model.FormatOption, s string) (model.FormatOption, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > len(options) {
		return model.FormatOption{}, false
	}
	return options[n-1], true
}
