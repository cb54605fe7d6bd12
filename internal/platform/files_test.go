package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "downloads")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if info, err := os.Stat(testDir); err != nil || !info.IsDir() {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestCreateDirectoryIfNotExists_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "downloads")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CreateDirectoryIfNotExists(path); err == nil {
		t.Error("Expected error when a regular file occupies the path")
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		title    string
		ext      string
		expected string
	}{
		{"My Clip", "mp4", "My Clip.mp4"},
		{"a/b:c*d?", "webm", "a_b_c_d_.webm"},
		{"  spaced  ", ".MKV", "spaced.mkv"},
		{"", "", "video.mp4"},
		{`bad<>|"name`, "m4a", "bad_name.m4a"},
	}

	for _, tt := range tests {
		if got := SafeFilename(tt.title, tt.ext); got != tt.expected {
			t.Errorf("SafeFilename(%q, %q) = %q, expected %q", tt.title, tt.ext, got, tt.expected)
		}
	}
}

func TestSafeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("я", MaxFilenameLength) // two bytes per rune
	got := SafeFilename(long, "mp4")
	base := strings.TrimSuffix(got, ".mp4")

	if len(base) > MaxFilenameLength {
		t.Errorf("base length %d exceeds %d", len(base), MaxFilenameLength)
	}
	if !strings.HasPrefix(long, base) {
		t.Errorf("truncated name %q is not a prefix of the title", base)
	}
}

func TestFindDownloadedFile(t *testing.T) {
	dir := t.TempDir()
	touch := func(name string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	t.Run("exact path", func(t *testing.T) {
		p := touch("Exact.mp4")
		got, err := FindDownloadedFile(p)
		if err != nil || got != p {
			t.Errorf("FindDownloadedFile() = %q, %v, expected %q", got, err, p)
		}
	})

	t.Run("different extension prefers mp4 over webm", func(t *testing.T) {
		touch("Clip.webm")
		mp4 := touch("Clip.mp4")
		touch("Clip.mp4.part")

		got, err := FindDownloadedFile(filepath.Join(dir, "Clip.mkv"))
		if err != nil || got != mp4 {
			t.Errorf("FindDownloadedFile() = %q, %v, expected %q", got, err, mp4)
		}
	})

	t.Run("similar name", func(t *testing.T) {
		p := touch("Long Title (1).webm")
		got, err := FindDownloadedFile(filepath.Join(dir, "Long Title.mp4"))
		if err != nil || got != p {
			t.Errorf("FindDownloadedFile() = %q, %v, expected %q", got, err, p)
		}
	})

	t.Run("only partial files", func(t *testing.T) {
		touch("Broken.webm.part")
		_, err := FindDownloadedFile(filepath.Join(dir, "Broken.webm"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("FindDownloadedFile() error = %v, expected ErrFileNotFound", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := FindDownloadedFile(""); err == nil {
			t.Error("Expected error for empty path")
		}
	})
}

func TestIsSimilarFileName(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"video", "video", true},
		{"video", "video-1", true},
		{"short", "a completely different name", false},
		{"", "video", false},
	}

	for _, tt := range tests {
		if got := isSimilarFileName(tt.a, tt.b); got != tt.expected {
			t.Errorf("isSimilarFileName(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
