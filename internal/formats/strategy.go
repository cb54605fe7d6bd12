package formats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ytget/ytpick/internal/model"
)

// Strategy names accepted by ByName.
const (
	StrategyMerge       = "merge"
	StrategyProgressive = "progressive"
)

// DefaultContainer is the container the progressive strategy keeps.
const DefaultContainer = "mp4"

// ErrUnknownStrategy is returned by ByName for an unregistered name.
var ErrUnknownStrategy = errors.New("unknown format strategy")

// Capabilities describes what the selected backend can do on this system.
type Capabilities struct {
	// Muxer is true when separate video and audio streams can be merged.
	Muxer bool
	// NeedsFFmpeg is true when Muxer depends on ffmpeg being installed.
	NeedsFFmpeg bool
	// Syntax writes selectors the backend understands.
	Syntax Syntax
}

// Strategy turns a probe result into presentation-ordered options.
type Strategy interface {
	Name() string
	List(probe *model.ProbeResult, caps Capabilities) []model.FormatOption
}

// ByName returns the strategy registered under name. container applies to the
// progressive strategy only.
func ByName(name, container string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyMerge, "":
		return MergeStrategy{}, nil
	case StrategyProgressive:
		return ProgressiveStrategy{Container: container}, nil
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}

// MergeStrategy synthesizes one option per distinct video height.
type MergeStrategy struct{}

func (MergeStrategy) Name() string { return StrategyMerge }

// List returns the synthetic best option followed by one option per height,
// tallest first. Audio-only streams and streams without a height are ignored.
func (MergeStrategy) List(probe *model.ProbeResult, caps Capabilities) []model.FormatOption {
	if probe == nil {
		return nil
	}
	syntax := syntaxOrDefault(caps.Syntax)

	seen := make(map[int]struct{})
	var heights []int
	for _, s := range probe.Streams {
		if !s.HasVideo() || s.Height <= 0 {
			continue
		}
		if _, ok := seen[s.Height]; ok {
			continue
		}
		seen[s.Height] = struct{}{}
		heights = append(heights, s.Height)
	}
	if len(heights) == 0 {
		return nil
	}
	slices.SortFunc(heights, func(a, b int) int { return b - a })

	options := make([]model.FormatOption, 0, len(heights)+1)
	options = append(options, model.FormatOption{
		FormatID:   syntax.Best(caps.Muxer),
		Resolution: fmt.Sprintf("best (%dp)", heights[0]),
		Height:     heights[0] + 1,
	})
	for _, h := range heights {
		options = append(options, model.FormatOption{
			FormatID:   syntax.AtMostHeight(h, caps.Muxer),
			Resolution: fmt.Sprintf("%dp", h),
			Height:     h,
		})
	}
	return options
}

// ProgressiveStrategy keeps streams that already hold audio and video in Container.
type ProgressiveStrategy struct {
	Container string
}

func (ProgressiveStrategy) Name() string { return StrategyProgressive }

// List returns every muxed stream in the container, tallest first. Streams of
// equal height keep their probe order.
func (p ProgressiveStrategy) List(probe *model.ProbeResult, caps Capabilities) []model.FormatOption {
	if probe == nil {
		return nil
	}
	syntax := syntaxOrDefault(caps.Syntax)
	container := strings.ToLower(strings.TrimSpace(p.Container))
	if container == "" {
		container = DefaultContainer
	}

	var options []model.FormatOption
	for _, s := range probe.Streams {
		if !strings.EqualFold(s.Ext, container) || !s.IsMuxed() {
			continue
		}
		options = append(options, model.FormatOption{
			FormatID:   syntax.Exact(s.ID),
			Resolution: resolutionLabel(s),
			Height:     s.Height,
			FileSize:   s.FileSize,
		})
	}
	slices.SortStableFunc(options, func(a, b model.FormatOption) int { return b.Height - a.Height })
	return options
}

func resolutionLabel(s model.Stream) string {
	if s.Height > 0 {
		return fmt.Sprintf("%dp", s.Height)
	}
	return "unknown (" + s.ID + ")"
}

func syntaxOrDefault(s Syntax) Syntax {
	if s == nil {
		return YtdlpSyntax{}
	}
	return s
}
