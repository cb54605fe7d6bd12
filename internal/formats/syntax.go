package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Syntax writes format selectors in a backend's dialect.
type Syntax interface {
	// Best selects the best available media.
	Best(merge bool) string
	// AtMostHeight selects the best media not taller than height.
	AtMostHeight(height int, merge bool) string
	// Exact selects one stream by its backend identifier.
	Exact(streamID string) string
}

// YtdlpSyntax writes yt-dlp format expressions.
type YtdlpSyntax struct{}

func (YtdlpSyntax) Best(merge bool) string {
	if merge {
		return "bestvideo+bestaudio/best"
	}
	return "best"
}

func (YtdlpSyntax) AtMostHeight(height int, merge bool) string {
	if merge {
		return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
	}
	return fmt.Sprintf("best[height<=%d]", height)
}

func (YtdlpSyntax) Exact(streamID string) string {
	return streamID
}

// NativeSyntax writes the selectors understood by the pure-Go backends:
// "best", "height<=N" and "itag=N". Merging is never available there.
type NativeSyntax struct{}

func (NativeSyntax) Best(bool) string {
	return "best"
}

func (NativeSyntax) AtMostHeight(height int, _ bool) string {
	return fmt.Sprintf("height<=%d", height)
}

func (NativeSyntax) Exact(streamID string) string {
	return "itag=" + streamID
}

// ErrBadSelector is returned for selectors outside the native dialect.
var ErrBadSelector = errors.New("unsupported format selector")

// SelectorKind tells which form a native selector has.
type SelectorKind int

const (
	SelectBest SelectorKind = iota
	SelectMaxHeight
	SelectItag
)

// NativeSelector is a parsed native selector.
type NativeSelector struct {
	Kind  SelectorKind
	Value int // height for SelectMaxHeight, itag for SelectItag
}

// ParseNativeSelector parses "best", "height<=N" or "itag=N". An empty
// selector means best.
func ParseNativeSelector(s string) (NativeSelector, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "best":
		return NativeSelector{Kind: SelectBest}, nil
	case strings.HasPrefix(s, "height<="):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "height<="))
		if err != nil || n <= 0 {
			return NativeSelector{}, errors.Wrapf(ErrBadSelector, "%q", s)
		}
		return NativeSelector{Kind: SelectMaxHeight, Value: n}, nil
	case strings.HasPrefix(s, "itag="):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "itag="))
		if err != nil || n <= 0 {
			return NativeSelector{}, errors.Wrapf(ErrBadSelector, "%q", s)
		}
		return NativeSelector{Kind: SelectItag, Value: n}, nil
	}
	return NativeSelector{}, errors.Wrapf(ErrBadSelector, "%q", s)
}
