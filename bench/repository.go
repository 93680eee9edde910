package bench

import (
	"context"
	"fmt"
	"io"
	"iter"
)

// Repository writes employees using one of two binding strategies. The simple
// variants bind native Go values and let the driver infer wire types; the
// typed variants declare the wire type and size of every parameter. Both must
// store identical rows.
type Repository interface {
	AddSimple(ctx context.Context, e Employee) (int64, error)
	AddTyped(ctx context.Context, e Employee) (int64, error)
	UpdateSimple(ctx context.Context, e Employee) (int64, error)
	UpdateTyped(ctx context.Context, e Employee) (int64, error)
	GetAll(ctx context.Context) iter.Seq2[Employee, error]
}

// Schema owns the benchmark table. Every operation checks for the table
// before acting, so calling any of them twice is harmless.
type Schema interface {
	CreateTable(ctx context.Context) error
	TruncateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
}

// Store is a single open connection to a benchmark target.
type Store interface {
	Repository
	Schema
	io.Closer
}

// CheckNames enforces the declared size of both name columns, as the typed
// strategy does before binding.
func CheckNames(e Employee) error {
	if n := NameLen(e.FirstName); n > MaxNameLength {
		return fmt.Errorf("first_name (%d chars, max %d): %w", n, MaxNameLength, ErrValueTooLong)
	}
	if n := NameLen(e.LastName); n > MaxNameLength {
		return fmt.Errorf("last_name (%d chars, max %d): %w", n, MaxNameLength, ErrValueTooLong)
	}
	return nil
}

// CollectAll drains a GetAll sequence, stopping at the first error.
func CollectAll(ctx context.Context, r Repository) ([]Employee, error) {
	var rows []Employee
	for e, err := range r.GetAll(ctx) {
		if err != nil {
			return nil, err
		}
		rows = append(rows, e)
	}
	return rows, nil
}
