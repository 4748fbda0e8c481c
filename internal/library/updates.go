package library

import "fmt"

// ProgressUpdate represents a progress event while the importer works through its queue.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Tasks finished so far in this run
	Total   int    // Tasks known so far in this run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanDirectory Phase = iota
	QueueFile
	SkipFile
	ImportFile
	TaskFailed
	TaskDone
)

func (p Phase) String() string {
	switch p {
	case ScanDirectory:
		return "scan_directory"
	case QueueFile:
		return "queue_file"
	case SkipFile:
		return "skip_file"
	case ImportFile:
		return "import_file"
	case TaskFailed:
		return "task_failed"
	case TaskDone:
		return "task_done"
	default:
		return ""
	}
}

func scanDirectoryUpdate(step, total int, dir string) ProgressUpdate {
	return ProgressUpdate{Phase: ScanDirectory, Step: step, Total: total, Message: fmt.Sprintf("Scanning %s...", dir)}
}

func queueFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{Phase: QueueFile, Step: step, Total: total, Message: fmt.Sprintf("Queued %s", path)}
}

func skipFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{Phase: SkipFile, Step: step, Total: total, Message: fmt.Sprintf("Ignoring %s", path)}
}

func importFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{Phase: ImportFile, Step: step, Total: total, Message: fmt.Sprintf("Importing %s...", path)}
}

func taskFailedUpdate(step, total int, uri string, err error) ProgressUpdate {
	return ProgressUpdate{Phase: TaskFailed, Step: step, Total: total, Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, uri, err)}
}

func taskDoneUpdate(step, total int, uri string, data any) ProgressUpdate {
	return ProgressUpdate{Phase: TaskDone, Step: step, Total: total, Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, uri), Data: data}
}

// sendProgress sends update without blocking. Updates to a full channel are dropped.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
