package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDownloadTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "N/A"},
		{0, "N/A"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		task := &DownloadTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		output   string
		url      string
		expected string
	}{
		{"Video Title", "", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"", "/tmp/downloads/Some Clip.mp4", "https://youtube.com/watch?v=456", "Some Clip"},
		{"https://youtu.be/x", `C:\dl\clip.webm`, "https://youtu.be/x", "clip"},
	}

	for _, test := range tests {
		task := &DownloadTask{
			Title:      test.title,
			OutputPath: test.output,
			URL:        test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', output='%s' = '%s', expected '%s'",
				test.title, test.output, result, test.expected)
		}
	}
}

func TestNewDownloadTask(t *testing.T) {
	task := NewDownloadTask("https://youtu.be/abc", "best", "Clip")

	if !strings.HasPrefix(task.ID, TaskIDPrefix) {
		t.Errorf("Expected ID to start with '%s', got: %s", TaskIDPrefix, task.ID)
	}
	if len(task.ID) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(task.ID), task.ID)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Expected status Pending, got %s", task.Status)
	}
	if task.ETASec != -1 {
		t.Errorf("Expected unknown ETA, got %d", task.ETASec)
	}

	other := NewDownloadTask("https://youtu.be/abc", "best", "Clip")
	if other.ID == task.ID {
		t.Error("Expected different task IDs")
	}
}

func TestDownloadTask_Lifecycle(t *testing.T) {
	task := NewDownloadTask("https://youtu.be/abc", "best", "Clip")

	task.Apply(ProgressEvent{Status: ProgressDownloading, Percent: 42.7, Speed: 1024, ETA: 3 * time.Second, TotalBytes: 5000})
	if task.Status != TaskStatusDownloading {
		t.Errorf("Expected Downloading, got %s", task.Status)
	}
	if task.Percent != 42 || task.ETASec != 3 || task.FileSize != 5000 || task.SpeedBps != 1024 {
		t.Errorf("Unexpected task state after progress: %+v", task)
	}

	// unknown values keep the previous ones
	task.Apply(ProgressEvent{Status: ProgressDownloading, Percent: -1, ETA: -1})
	if task.Percent != 42 || task.ETASec != 3 {
		t.Errorf("Unknown progress should not reset counters: %+v", task)
	}

	task.Apply(ProgressEvent{Status: ProgressProcessing, Percent: 10, ETA: -1})
	if task.Status != TaskStatusProcessing {
		t.Errorf("Expected Processing, got %s", task.Status)
	}

	task.Complete("/tmp/Clip.mp4")
	if task.Status != TaskStatusCompleted || task.Percent != 100 || task.OutputPath != "/tmp/Clip.mp4" {
		t.Errorf("Unexpected completed state: %+v", task)
	}
	if task.FinishedAt.IsZero() || task.Elapsed() < 0 {
		t.Error("Expected FinishedAt to be set")
	}

	failed := NewDownloadTask("u", "f", "t")
	failed.Fail(errors.New("boom"))
	if failed.Status != TaskStatusError || failed.LastError != "boom" {
		t.Errorf("Unexpected failed state: %+v", failed)
	}

	stopped := NewDownloadTask("u", "f", "t")
	stopped.Stop()
	if !stopped.Status.IsFinished() {
		t.Errorf("Stopped task should be finished, got %s", stopped.Status)
	}
}

func TestNewByteProgress(t *testing.T) {
	ev := NewByteProgress(500, 1000, time.Now().Add(-time.Second))
	if ev.Status != ProgressDownloading {
		t.Errorf("Expected downloading status, got %s", ev.Status)
	}
	if ev.Percent != 50 {
		t.Errorf("Expected 50%%, got %v", ev.Percent)
	}
	if ev.Speed <= 0 || ev.Speed > 500 {
		t.Errorf("Expected speed in (0, 500], got %v", ev.Speed)
	}
	if ev.ETA <= 0 {
		t.Errorf("Expected positive ETA, got %v", ev.ETA)
	}

	unknown := NewByteProgress(500, 0, time.Time{})
	if unknown.Percent >= 0 || unknown.ETA >= 0 || unknown.Speed != 0 {
		t.Errorf("Expected unknown percent/ETA/speed, got %+v", unknown)
	}
}

func TestStream_Components(t *testing.T) {
	tests := []struct {
		stream   Stream
		hasVideo bool
		muxed    bool
	}{
		{Stream{VideoCodec: "avc1", AudioCodec: "mp4a"}, true, true},
		{Stream{VideoCodec: "avc1", AudioCodec: CodecNone}, true, false},
		{Stream{VideoCodec: CodecNone, AudioCodec: "opus"}, false, false},
		{Stream{}, true, false},
	}

	for _, test := range tests {
		if got := test.stream.HasVideo(); got != test.hasVideo {
			t.Errorf("HasVideo(%+v) = %v, expected %v", test.stream, got, test.hasVideo)
		}
		if got := test.stream.IsMuxed(); got != test.muxed {
			t.Errorf("IsMuxed(%+v) = %v, expected %v", test.stream, got, test.muxed)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := DisplayTitle("  "); got != DefaultTitle {
		t.Errorf("DisplayTitle(blank) = %q, expected %q", got, DefaultTitle)
	}
	if got := DisplayTitle("Clip"); got != "Clip" {
		t.Errorf("DisplayTitle(Clip) = %q", got)
	}
}
