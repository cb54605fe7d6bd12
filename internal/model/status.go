package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but the backend was not called yet
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the backend is transferring media
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusProcessing means the file is being remuxed after the transfer
	TaskStatusProcessing TaskStatus = "Processing"

	// TaskStatusStopped means the run was interrupted by the user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the file was written successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the download failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading || ts == TaskStatusProcessing
}

// IsFinished returns true if the task is in a finished state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// ProgressStatus is the status carried by a progress event.
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressProcessing  ProgressStatus = "processing"
	ProgressFinished    ProgressStatus = "finished"
)
