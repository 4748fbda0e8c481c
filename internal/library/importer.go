package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/repositories"
	"github.com/desertthunder/musik/internal/shared"
)

// Importer works through the import queue one task at a time.
type Importer struct {
	tasks    *repositories.ImportTaskRepository
	catalog  *Catalog
	interval time.Duration
	logger   *log.Logger
	progress chan<- ProgressUpdate

	done, total int
}

// ImporterOpts configures an [Importer].
type ImporterOpts struct {
	PollInterval time.Duration         // Time between queue polls (default: 1s)
	Reader       TagReader             // Tag reader (default: [ID3Reader])
	Progress     chan<- ProgressUpdate // Optional progress updates; dropped when the channel is full
}

// NewImporter creates an importer over db.
func NewImporter(db *sql.DB, logger *log.Logger, opts ImporterOpts) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Importer{
		tasks:    repositories.NewImportTaskRepository(db),
		catalog:  NewCatalog(db, opts.Reader, logger),
		interval: opts.PollInterval,
		logger:   shared.WithLogger(logger, "component", "importer"),
		progress: opts.Progress,
	}
}

// Enqueue adds uri to the import queue.
func (i *Importer) Enqueue(ctx context.Context, uri string) (*models.ImportTask, error) {
	return i.tasks.Enqueue(ctx, uri)
}

// Run polls for the oldest pending task once per poll interval until ctx is done.
func (i *Importer) Run(ctx context.Context) error {
	i.logger.Info("importer started", "interval", i.interval)
	limiter := rate.NewLimiter(rate.Every(i.interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			i.logger.Info("importer stopped")
			return nil
		}

		if _, err := i.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				i.logger.Info("importer stopped")
				return nil
			}
			i.logger.Error("failed to process import task", "error", err)
		}
	}
}

// ProcessNext claims and processes the oldest pending task.
// It reports false when the queue is empty.
func (i *Importer) ProcessNext(ctx context.Context) (bool, error) {
	task, err := i.tasks.NextPending(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := i.tasks.MarkStarted(ctx, task); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return true, nil
		}
		return false, err
	}

	return true, i.Process(ctx, task)
}

// Drain processes tasks until the queue is empty or ctx is done, without waiting between them.
// A task that fails is logged and completed, as in [Importer.Run]; only queue errors stop the drain.
func (i *Importer) Drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := i.ProcessNext(ctx)
		switch {
		case err != nil && !more:
			return err
		case err != nil:
			i.logger.Error("failed to process import task", "error", err)
		case !more:
			return nil
		}
	}
}

// Process imports a claimed task and marks it completed.
//
// Directories are walked and their files queued, files are imported, and anything
// else is logged and completed without effect.
func (i *Importer) Process(ctx context.Context, task *models.ImportTask) error {
	pending, err := i.tasks.PendingCount(ctx)
	if err != nil {
		i.logger.Debug("cannot count pending tasks", "error", err)
	}
	i.total = i.done + 1 + pending
	i.logger.Info("processing task", "task", task)

	var data any
	var procErr error

	info, err := os.Stat(task.URI)
	switch {
	case err == nil && info.IsDir():
		i.logger.Info("importing directory", "uri", task.URI)
		procErr = i.importDirectory(ctx, task.URI)
	case err == nil && info.Mode().IsRegular():
		i.logger.Info("importing file", "uri", task.URI)
		sendProgress(i.progress, importFileUpdate(i.done, i.total, task.URI))
		data, procErr = i.catalog.ImportTrack(ctx, task.URI)
	default:
		i.logger.Warn("unrecognized uri", "uri", task.URI)
	}

	if err := i.tasks.MarkCompleted(ctx, task); err != nil {
		return err
	}
	i.done++

	if procErr != nil {
		sendProgress(i.progress, taskFailedUpdate(i.done, i.total, task.URI, procErr))
		return fmt.Errorf("failed to import %s: %w", task.URI, procErr)
	}

	i.logger.Info("finished task", "task", task)
	sendProgress(i.progress, taskDoneUpdate(i.done, i.total, task.URI, data))
	return nil
}

// importDirectory walks root breadth-first and queues every supported file as its own task.
func (i *Importer) importDirectory(ctx context.Context, root string) error {
	queue := []string{root}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := queue[0]
		queue = queue[1:]
		sendProgress(i.progress, scanDirectoryUpdate(i.done, i.total, dir))

		entries, err := os.ReadDir(dir)
		if err != nil {
			i.logger.Warn("cannot read directory", "dir", dir, "error", err)
			continue
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].Name() < entries[b].Name() })

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			info, err := os.Stat(path)
			if err != nil {
				i.logger.Debug("ignoring unreadable entry", "path", path, "error", err)
				continue
			}

			switch {
			case info.IsDir():
				queue = append(queue, path)
			case !info.Mode().IsRegular():
				i.logger.Debug("ignoring file", "path", path)
			case IsSupported(path):
				if _, err := i.tasks.Enqueue(ctx, path); err != nil {
					return err
				}
				i.total++
				sendProgress(i.progress, queueFileUpdate(i.done, i.total, path))
			default:
				i.logger.Debug("ignoring file", "path", path)
				sendProgress(i.progress, skipFileUpdate(i.done, i.total, path))
			}
		}
	}
	return nil
}
