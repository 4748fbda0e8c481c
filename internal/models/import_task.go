package models

import (
	"fmt"
	"strings"
	"time"
)

var _ Model = (*ImportTask)(nil)

// ImportTask is any operation that brings media at a uri into the library.
//
// Only local directories and files are imported. A task is pending until Started is set
// and running until Completed is set.
type ImportTask struct {
	ID        int64      `json:"id"`
	URI       string     `json:"uri"`
	Created   time.Time  `json:"created"`
	Started   *time.Time `json:"started"`
	Completed *time.Time `json:"completed"`
}

// NewImportTask creates a pending task for uri stamped with the current UTC time.
func NewImportTask(uri string) *ImportTask {
	return &ImportTask{URI: uri, Created: time.Now().UTC()}
}

func (t *ImportTask) Key() int64 { return t.ID }

func (t *ImportTask) Validate() error {
	if strings.TrimSpace(t.URI) == "" {
		return fmt.Errorf("import task requires a uri")
	}
	return nil
}

// Pending reports whether the importer has not picked the task up yet.
func (t *ImportTask) Pending() bool { return t.Started == nil }

// Running reports whether the task has started but not completed.
func (t *ImportTask) Running() bool { return t.Started != nil && t.Completed == nil }

func (t *ImportTask) String() string {
	switch {
	case t.Completed != nil:
		return fmt.Sprintf("<ImportTask(uri=%s, created=%s, started=%s, completed=%s)>", t.URI, t.Created, *t.Started, *t.Completed)
	case t.Started != nil:
		return fmt.Sprintf("<ImportTask(uri=%s, created=%s, started=%s)>", t.URI, t.Created, *t.Started)
	default:
		return fmt.Sprintf("<ImportTask(uri=%s, created=%s)>", t.URI, t.Created)
	}
}
