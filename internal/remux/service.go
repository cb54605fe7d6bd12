package remux

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/ytpick/internal/model"
	"github.com/ytget/ytpick/internal/platform"
)

// FFmpeg constants for stream copy
const (
	FastStartFlag       = "+faststart"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	ProgressEndLine     = "progress=end"
	JobIDPrefix         = "remux-"
	RemuxSuffix         = "-remux"
)

// ErrFFmpegMissing is returned when ffmpeg cannot be located.
var ErrFFmpegMissing = errors.New("ffmpeg not found")

// Service runs ffmpeg stream copies
type Service struct {
	ffmpegPath  string
	ffprobePath string
	log         zerolog.Logger
}

var _ Remuxer = (*Service)(nil)

// NewService resolves ffmpeg from location (a command name, binary path or
// directory) and returns a ready service.
func NewService(location string, log zerolog.Logger) (*Service, error) {
	ffmpeg, err := platform.FFmpegPath(location)
	if err != nil {
		return nil, errors.Wrapf(ErrFFmpegMissing, "%s: %v", location, err)
	}
	// ffprobe is optional; without it progress is reported as unknown
	ffprobe, _ := platform.FFprobePath(ffmpeg)

	return &Service{
		ffmpegPath:  ffmpeg,
		ffprobePath: ffprobe,
		log:         log,
	}, nil
}

// NeedsRemux reports whether path has a different extension than container.
func NeedsRemux(path, container string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return container != "" && ext != strings.ToLower(container)
}

// Remux copies the streams of inputPath into container.
func (s *Service) Remux(ctx context.Context, inputPath, container string, onProgress model.ProgressFunc) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", errors.Wrapf(err, "input file %s", inputPath)
	}

	outputPath := OutputPath(inputPath, container)
	log := s.log.With().Str("job", generateJobID()).Str("input", inputPath).Str("output", outputPath).Logger()

	duration := -1.0
	if s.ffprobePath != "" {
		d, err := s.probeDuration(ctx, inputPath)
		if err != nil {
			log.Debug().Err(err).Msg("duration unknown, progress will not be reported")
		} else {
			duration = d
		}
	}

	args := BuildFFmpegArgs(inputPath, outputPath, container)
	log.Debug().Str("cmd", shellescape.QuoteCommand(append([]string{s.ffmpegPath}, args...))).Msg("running ffmpeg")

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", errors.Wrap(err, "failed to create stderr pipe")
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return "", errors.Wrap(err, "failed to start ffmpeg")
	}

	tail := monitorProgress(stderr, duration, onProgress)
	err = cmd.Wait()

	if ctx.Err() != nil {
		os.Remove(outputPath)
		return "", ctx.Err()
	}
	if err != nil {
		os.Remove(outputPath)
		return "", errors.Wrapf(err, "ffmpeg failed: %s", strings.Join(tail, "; "))
	}

	if err := os.Remove(inputPath); err != nil {
		log.Warn().Err(err).Msg("failed to remove source after remux")
	}
	log.Debug().Dur("took", time.Since(started)).Msg("remux finished")

	return outputPath, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath, container string) []string {
	args := []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-map", "0", // Keep every stream
		"-c", "copy", // No re-encode
	}
	switch strings.ToLower(container) {
	case "mp4", "mov", "m4a":
		args = append(args, "-movflags", FastStartFlag)
	}
	return append(args,
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	)
}

// OutputPath swaps the extension of inputPath for container. A suffix is
// added when that would overwrite the input.
func OutputPath(inputPath, container string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	container = strings.TrimPrefix(strings.ToLower(container), ".")
	if strings.EqualFold(ext, "."+container) {
		return base + RemuxSuffix + "." + container
	}
	return base + "." + container
}

// probeDuration gets the duration of a media file using ffprobe
func (s *Service) probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, errors.Wrap(err, "failed to run ffprobe")
	}
	return ParseDuration(string(output))
}

// ParseDuration parses ffprobe's duration output in seconds.
func ParseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse duration")
	}
	if duration <= 0 {
		return 0, errors.Newf("invalid duration %v", duration)
	}
	return duration, nil
}

// ParseProgressLine returns the percentage encoded by an out_time_us line.
func ParseProgressLine(line string, totalSeconds float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ProgressTimePrefix) || totalSeconds <= 0 {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	progress := float64(us) / 1e6 / totalSeconds
	if progress > 1.0 {
		progress = 1.0
	}
	return progress * 100, true
}

const tailLines = 5

// monitorProgress reads ffmpeg's stderr until EOF, reporting progress and
// returning the last non-progress lines for error messages.
func monitorProgress(r io.Reader, totalSeconds float64, onProgress model.ProgressFunc) []string {
	var tail []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if percent, ok := ParseProgressLine(line, totalSeconds); ok {
			emit(onProgress, percent)
			continue
		}
		if line == ProgressEndLine {
			emit(onProgress, 100)
			continue
		}
		if line == "" || strings.Contains(line, "=") {
			continue
		}
		tail = append(tail, line)
		if len(tail) > tailLines {
			tail = tail[1:]
		}
	}
	return tail
}

func emit(onProgress model.ProgressFunc, percent float64) {
	if onProgress == nil {
		return
	}
	onProgress(model.ProgressEvent{
		Status:  model.ProgressProcessing,
		Percent: percent,
		ETA:     -1,
	})
}

// generateJobID generates a unique job ID using UUID v7
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
