package platform

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Default tool names looked up on PATH
const (
	FFmpegName  = "ffmpeg"
	FFprobeName = "ffprobe"
)

// ErrToolNotFound is returned when an executable cannot be located.
var ErrToolNotFound = errors.New("executable not found")

// LookupTool resolves name to an executable path. name may be a bare command
// looked up on PATH, a path to the binary, or a directory containing it.
func LookupTool(name, location string) (string, error) {
	if location != "" {
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			location = filepath.Join(location, name)
		}
		if path, err := exec.LookPath(location); err == nil {
			return path, nil
		}
		return "", errors.Wrapf(ErrToolNotFound, "%s", location)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(ErrToolNotFound, "%s", name)
	}
	return path, nil
}

// FFmpegPath resolves ffmpeg from an optional location.
func FFmpegPath(location string) (string, error) {
	if location == FFmpegName {
		location = ""
	}
	return LookupTool(FFmpegName, location)
}

// FFprobePath resolves ffprobe next to the given ffmpeg binary, falling back
// to PATH.
func FFprobePath(ffmpegPath string) (string, error) {
	if ffmpegPath != "" {
		candidate := filepath.Join(filepath.Dir(ffmpegPath), FFprobeName+filepath.Ext(ffmpegPath))
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return LookupTool(FFprobeName, "")
}

// FFmpegAvailable reports whether ffmpeg can be found.
func FFmpegAvailable(location string) bool {
	_, err := FFmpegPath(location)
	return err == nil
}
