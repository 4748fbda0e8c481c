package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/shared"
)

var _ models.Repository[*models.ImportTask] = (*ImportTaskRepository)(nil)

var importTasks = table[*models.ImportTask]{
	name:  "import_tasks",
	cols:  []string{"uri", "created", "started", "completed"},
	order: "created ASC, id ASC",
	filters: map[string]match{
		"id":  exact,
		"uri": contains,
	},
	fields: func(t *models.ImportTask) []any {
		return []any{&t.URI, &t.Created, &t.Started, &t.Completed}
	},
	newT:   func() *models.ImportTask { return &models.ImportTask{} },
	setKey: func(t *models.ImportTask, id int64) { t.ID = id },
}

// ImportTaskRepository persists the import queue.
//
// Tasks are processed oldest first. A task is claimed by setting its started timestamp.
type ImportTaskRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewImportTaskRepository creates a new ImportTaskRepository with the given database connection
func NewImportTaskRepository(db *sql.DB) *ImportTaskRepository {
	return &ImportTaskRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *ImportTaskRepository) Create(ctx context.Context, task *models.ImportTask) error {
	return importTasks.create(ctx, r.db, task)
}

func (r *ImportTaskRepository) Get(ctx context.Context, id int64) (*models.ImportTask, error) {
	return importTasks.get(ctx, r.db, id)
}

func (r *ImportTaskRepository) Update(ctx context.Context, task *models.ImportTask) error {
	return importTasks.update(ctx, r.db, task)
}

func (r *ImportTaskRepository) List(ctx context.Context, filters models.Filters) ([]*models.ImportTask, error) {
	return importTasks.list(ctx, r.db, filters)
}

// Enqueue creates a pending task for uri.
func (r *ImportTaskRepository) Enqueue(ctx context.Context, uri string) (*models.ImportTask, error) {
	task := &models.ImportTask{URI: uri, Created: r.now()}
	if err := r.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// NextPending returns the oldest task that has not been started, or [shared.ErrNotFound].
func (r *ImportTaskRepository) NextPending(ctx context.Context) (*models.ImportTask, error) {
	query := importTasks.selectClause() + " WHERE started IS NULL ORDER BY created ASC, id ASC LIMIT 1"

	task, err := importTasks.scan(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no pending import tasks", shared.ErrNotFound)
	}
	return task, err
}

// MarkStarted claims a pending task. It fails with [shared.ErrNotFound] if the task was already started.
func (r *ImportTaskRepository) MarkStarted(ctx context.Context, task *models.ImportTask) error {
	now := r.now()
	if err := r.stamp(ctx, "UPDATE import_tasks SET started = ? WHERE id = ? AND started IS NULL", now, task.ID); err != nil {
		return err
	}
	task.Started = &now
	return nil
}

// MarkCompleted stamps a running task as completed.
func (r *ImportTaskRepository) MarkCompleted(ctx context.Context, task *models.ImportTask) error {
	now := r.now()
	if err := r.stamp(ctx, "UPDATE import_tasks SET completed = ? WHERE id = ? AND completed IS NULL", now, task.ID); err != nil {
		return err
	}
	task.Completed = &now
	return nil
}

func (r *ImportTaskRepository) stamp(ctx context.Context, query string, at time.Time, id int64) error {
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to update import task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: import task %d", shared.ErrNotFound, id)
	}
	return nil
}

// PendingCount returns the number of tasks that have not been started.
func (r *ImportTaskRepository) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM import_tasks WHERE started IS NULL AND completed IS NULL").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count import tasks: %w", err)
	}
	return n, nil
}

// Current returns the task being processed, or [shared.ErrNotFound] when the importer is idle.
func (r *ImportTaskRepository) Current(ctx context.Context) (*models.ImportTask, error) {
	return importTasks.findOne(ctx, r.db, "started IS NOT NULL AND completed IS NULL")
}
