// package models defines the data model for the music library service
package models

import "context"

// Model defines the base interface for all persistent catalog models.
type Model interface {
	Key() int64      // Key returns the primary key (zero before creation)
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error              // Create inserts a new model and assigns its key
	Get(ctx context.Context, id int64) (T, error)           // Get retrieves a model by its key
	Update(ctx context.Context, model T) error              // Update modifies an existing model
	List(ctx context.Context, filters Filters) ([]T, error) // List retrieves all models matching every filter
}

// Filter is one key/value query term.
type Filter struct {
	Key   string
	Value string
}

// Filters is an ordered list of terms combined with AND.
type Filters []Filter

// ParseFilterPath pairs up URL path segments as key/value filters.
//
// A trailing key without a value is dropped. Empty segments are skipped.
func ParseFilterPath(segments []string) Filters {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}

	filters := Filters{}
	for i := 0; i+1 < len(parts); i += 2 {
		filters = append(filters, Filter{Key: parts[i], Value: parts[i+1]})
	}
	return filters
}

// Get returns the value of the first filter with key.
func (f Filters) Get(key string) (string, bool) {
	for _, term := range f {
		if term.Key == key {
			return term.Value, true
		}
	}
	return "", false
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int64) *int64 { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Deref returns the value behind p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
