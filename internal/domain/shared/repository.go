package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base interface for all repositories
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// OwnedRepository is a repository scoped to an owning user
type OwnedRepository[T any] interface {
	Repository[T]
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*T, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter Filter) ([]T, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter Filter) (int64, error)
}

// Filter represents query filter options.
// Skip/Limit are offset pagination; Search matches case-insensitively across
// the repository's searchable columns; Filters holds column-specific matches.
type Filter struct {
	Skip     int
	Limit    int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// MaxPageSize caps the number of records returned by a single list query.
const MaxPageSize = 100

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Skip:     0,
		Limit:    10,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Normalize clamps pagination values into their allowed ranges.
func (f *Filter) Normalize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total_count"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, skip, limit int) Paginated[T] {
	return Paginated[T]{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
}
