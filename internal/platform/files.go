package platform

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename limits and defaults
const (
	MaxFilenameLength = 120
	DefaultExt        = "mp4"
	DefaultName       = "video"
	MaxNameDifference = 10
)

// SkippedExtensions marks temporary files left by downloaders.
var SkippedExtensions = []string{".part", ".ytdl", ".temp"}

// PreferredExtensions orders candidate outputs when several share a name.
var PreferredExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".m4a", ".mp3", ".opus"}

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// ErrFileNotFound is returned when no downloaded file matches.
var ErrFileNotFound = errors.New("downloaded file not found")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "create directory %s", dirPath)
		}
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "stat %s", dirPath)
	}
	if !info.IsDir() {
		return errors.Newf("%s exists and is not a directory", dirPath)
	}
	return nil
}

// SafeFilename builds a cross-platform file name from a title and an
// extension given with or without the leading dot.
func SafeFilename(title, ext string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = DefaultName
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if len(name) > MaxFilenameLength {
		name = strings.TrimSpace(truncateUTF8(name, MaxFilenameLength))
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = DefaultExt
	}
	return filepath.Clean(name + "." + ext)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// FindDownloadedFile resolves the file a backend actually wrote for an
// expected path. Backends may pick a different extension or tweak the name,
// so when the exact path is missing the directory is searched for files with
// the same or a similar base name.
func FindDownloadedFile(expected string) (string, error) {
	if expected == "" {
		return "", errors.New("file path is empty")
	}
	if info, err := os.Stat(expected); err == nil && !info.IsDir() {
		return expected, nil
	}

	dir := filepath.Dir(expected)
	base := strings.TrimSuffix(filepath.Base(expected), filepath.Ext(expected))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "read directory %s", dir)
	}

	var exact, similar []string
	for _, entry := range entries {
		if entry.IsDir() || isTemporary(entry.Name()) {
			continue
		}
		name := entry.Name()
		entryBase := strings.TrimSuffix(name, filepath.Ext(name))
		switch {
		case entryBase == base:
			exact = append(exact, filepath.Join(dir, name))
		case isSimilarFileName(entryBase, base):
			similar = append(similar, filepath.Join(dir, name))
		}
	}

	if len(exact) > 0 {
		sortByPreference(exact)
		return exact[0], nil
	}
	if len(similar) > 0 {
		sortByPreference(similar)
		return similar[0], nil
	}
	return "", errors.Wrapf(ErrFileNotFound, "%s", expected)
}

func isTemporary(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func extRank(path string) int {
	ext := strings.ToLower(filepath.Ext(path))
	for i, e := range PreferredExtensions {
		if e == ext {
			return i
		}
	}
	return len(PreferredExtensions)
}

func sortByPreference(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ri, rj := extRank(paths[i]), extRank(paths[j])
		if ri != rj {
			return ri < rj
		}
		return paths[i] < paths[j]
	})
}

// isSimilarFileName checks if two file names are similar enough to be considered the same file
func isSimilarFileName(name1, name2 string) bool {
	clean1 := strings.TrimSpace(name1)
	clean2 := strings.TrimSpace(name2)

	if clean1 == clean2 {
		return true
	}
	if clean1 == "" || clean2 == "" {
		return false
	}

	// Truncated or decorated names
	if strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}

	return false
}
