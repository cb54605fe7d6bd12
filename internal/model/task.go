package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskIDPrefix prefixes every download task ID.
const TaskIDPrefix = "dl-"

// DownloadTask represents a single download run
type DownloadTask struct {
	ID         string
	URL        string
	FormatID   string
	Status     TaskStatus
	Progress   float64   // 0.0 to 1.0
	Percent    int       // 0 to 100
	SpeedBps   float64   // bytes per second, 0 if unknown
	ETASec     int       // ETA in seconds, -1 if unknown
	LastError  string    // last error message if any
	OutputPath string    // path to downloaded file
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
	Title      string    // video title
	FileSize   int64     // file size in bytes
}

// NewDownloadTask creates a pending task for url and formatID.
func NewDownloadTask(url, formatID, title string) *DownloadTask {
	return &DownloadTask{
		ID:        generateTaskID(),
		URL:       url,
		FormatID:  formatID,
		Title:     title,
		Status:    TaskStatusPending,
		ETASec:    -1,
		StartedAt: time.Now(),
	}
}

// Apply folds a progress event into the task.
func (dt *DownloadTask) Apply(ev ProgressEvent) {
	switch ev.Status {
	case ProgressProcessing:
		dt.Status = TaskStatusProcessing
	default:
		dt.Status = TaskStatusDownloading
	}
	if ev.Percent >= 0 {
		dt.Progress = ev.Percent / 100.0
		dt.Percent = int(ev.Percent)
	}
	if ev.Speed > 0 {
		dt.SpeedBps = ev.Speed
	}
	if ev.ETA >= 0 {
		dt.ETASec = int(ev.ETA.Seconds())
	}
	if ev.TotalBytes > 0 {
		dt.FileSize = ev.TotalBytes
	}
	if ev.Filename != "" {
		dt.OutputPath = ev.Filename
	}
}

// Complete marks the task finished successfully.
func (dt *DownloadTask) Complete(outputPath string) {
	dt.Status = TaskStatusCompleted
	dt.Progress = 1.0
	dt.Percent = 100
	dt.ETASec = 0
	if outputPath != "" {
		dt.OutputPath = outputPath
	}
	dt.FinishedAt = time.Now()
}

// Fail marks the task as failed with err.
func (dt *DownloadTask) Fail(err error) {
	dt.Status = TaskStatusError
	if err != nil {
		dt.LastError = err.Error()
	}
	dt.FinishedAt = time.Now()
}

// Stop marks the task as interrupted by the user.
func (dt *DownloadTask) Stop() {
	dt.Status = TaskStatusStopped
	dt.FinishedAt = time.Now()
}

// Elapsed returns the task duration so far, or the total once finished.
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// GetETAString returns ETA formatted as hh:mm:ss, or "N/A" if unknown
func (dt *DownloadTask) GetETAString() string {
	return FormatETA(dt.ETASec)
}

// FormatETA formats seconds as mm:ss or hh:mm:ss. Non-positive values are "N/A".
func FormatETA(sec int) string {
	if sec <= 0 {
		return "N/A"
	}

	hours := sec / 3600
	minutes := (sec % 3600) / 60
	seconds := sec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	// Second priority: filename from OutputPath
	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}

// generateTaskID generates a unique task ID using UUID v7 so IDs sort by creation time
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
