package model

import "time"

// ProgressEvent is a single progress notification from a backend or the remuxer.
type ProgressEvent struct {
	Status          ProgressStatus
	Percent         float64       // 0..100, negative if unknown
	Speed           float64       // bytes per second, 0 if unknown
	ETA             time.Duration // negative if unknown
	DownloadedBytes int64
	TotalBytes      int64
	Filename        string
}

// ProgressFunc receives progress events.
type ProgressFunc func(ProgressEvent)

// NewByteProgress builds a downloading event from byte counters and the time
// the transfer started. Percent, speed and ETA are derived when possible.
func NewByteProgress(downloaded, total int64, started time.Time) ProgressEvent {
	ev := ProgressEvent{
		Status:          ProgressDownloading,
		Percent:         -1,
		ETA:             -1,
		DownloadedBytes: downloaded,
		TotalBytes:      total,
	}
	if total > 0 {
		ev.Percent = float64(downloaded) / float64(total) * 100
	}
	if !started.IsZero() {
		elapsed := time.Since(started)
		if elapsed.Seconds() > 0 {
			ev.Speed = float64(downloaded) / elapsed.Seconds()
		}
	}
	if ev.Speed > 0 && total > downloaded {
		ev.ETA = time.Duration(float64(total-downloaded) / ev.Speed * float64(time.Second))
	}
	return ev
}
