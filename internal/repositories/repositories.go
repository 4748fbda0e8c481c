// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/musik/internal/models"
	"github.com/desertthunder/musik/internal/shared"
)

// match describes how a filter value is compared against a column.
type match int

const (
	exact match = iota
	contains
)

// table describes how a model maps onto a SQLite table.
//
// fields returns pointers to the model's columns in the same order as cols, excluding the id.
// The same pointers are used as scan destinations and as statement arguments.
type table[T models.Model] struct {
	name    string
	cols    []string
	order   string
	filters map[string]match
	fields  func(T) []any
	newT    func() T
	setKey  func(T, int64)
}

func (t table[T]) selectClause() string {
	return fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(t.cols, ", "), t.name)
}

func (t table[T]) create(ctx context.Context, db *sql.DB, m T) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.cols, ", "), placeholders)

	result, err := db.ExecContext(ctx, query, t.fields(m)...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read %s id: %w", t.name, err)
	}
	t.setKey(m, id)

	return nil
}

func (t table[T]) get(ctx context.Context, db *sql.DB, id int64) (T, error) {
	return t.findOne(ctx, db, "id = ?", id)
}

func (t table[T]) update(ctx context.Context, db *sql.DB, m T) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sets := make([]string, len(t.cols))
	for i, c := range t.cols {
		sets[i] = c + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(sets, ", "))

	args := append(t.fields(m), m.Key())
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %d", shared.ErrNotFound, t.name, m.Key())
	}

	return nil
}

// list returns every row matching filters, combined with AND, in the table's order.
func (t table[T]) list(ctx context.Context, db *sql.DB, filters models.Filters) ([]T, error) {
	where, args := t.where(filters)
	query := t.selectClause() + where + " ORDER BY " + t.order

	return t.query(ctx, db, query, args...)
}

func (t table[T]) where(filters models.Filters) (string, []any) {
	var clauses []string
	var args []any

	for _, f := range filters {
		kind, ok := t.filters[f.Key]
		if !ok {
			continue
		}

		switch kind {
		case contains:
			clauses = append(clauses, f.Key+" LIKE ?")
			args = append(args, "%"+f.Value+"%")
		default:
			clauses = append(clauses, f.Key+" = ?")
			args = append(args, f.Value)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (t table[T]) query(ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		m, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return results, nil
}

// findOne returns the first row matching cond, or [shared.ErrNotFound].
func (t table[T]) findOne(ctx context.Context, db *sql.DB, cond string, args ...any) (T, error) {
	query := t.selectClause() + " WHERE " + cond + " ORDER BY id LIMIT 1"

	m, err := t.scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("%w: %s", shared.ErrNotFound, t.name)
	}
	return m, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (t table[T]) scan(row scanner) (T, error) {
	m := t.newT()
	var id int64

	dest := append([]any{&id}, t.fields(m)...)
	if err := row.Scan(dest...); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, err
		}
		return zero, fmt.Errorf("failed to scan %s: %w", t.name, err)
	}
	t.setKey(m, id)

	return m, nil
}
