// Package mem is an in-memory benchmark store. It enforces the same column
// bounds as the SQL stores so runner behaviour can be exercised without a
// database.
package mem

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"

	"bindbench/bench"
)

type Store struct {
	exists bool
	nextID int64
	rows   map[int64]bench.Employee
	closed bool
}

func New() *Store {
	return &Store{nextID: 1, rows: make(map[int64]bench.Employee)}
}

func (s *Store) CreateTable(ctx context.Context) error {
	if s.exists {
		return nil
	}
	s.exists = true
	s.nextID = 1
	s.rows = make(map[int64]bench.Employee)
	return nil
}

func (s *Store) TruncateTable(ctx context.Context) error {
	if !s.exists {
		return nil
	}
	clear(s.rows)
	s.nextID = 1
	return nil
}

func (s *Store) DropTable(ctx context.Context) error {
	s.exists = false
	s.rows = make(map[int64]bench.Employee)
	s.nextID = 1
	return nil
}

// AddSimple stores e as-is; the column bound acts like a constraint.
func (s *Store) AddSimple(ctx context.Context, e bench.Employee) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := bench.CheckNames(e); err != nil {
		return 0, fmt.Errorf("constraint violation: %w", err)
	}
	return s.insert(e), nil
}

// AddTyped checks declared sizes before binding, then stores e.
func (s *Store) AddTyped(ctx context.Context, e bench.Employee) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := bench.CheckNames(e); err != nil {
		return 0, err
	}
	return s.insert(e), nil
}

func (s *Store) UpdateSimple(ctx context.Context, e bench.Employee) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := bench.CheckNames(e); err != nil {
		return 0, fmt.Errorf("constraint violation: %w", err)
	}
	return s.update(e), nil
}

func (s *Store) UpdateTyped(ctx context.Context, e bench.Employee) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := bench.CheckNames(e); err != nil {
		return 0, err
	}
	return s.update(e), nil
}

// GetAll yields rows in id order.
func (s *Store) GetAll(ctx context.Context) iter.Seq2[bench.Employee, error] {
	return func(yield func(bench.Employee, error) bool) {
		if err := s.ready(ctx); err != nil {
			yield(bench.Employee{}, err)
			return
		}
		for _, id := range slices.Sorted(maps.Keys(s.rows)) {
			if !yield(s.rows[id], nil) {
				return
			}
		}
	}
}

// Len reports the number of stored rows.
func (s *Store) Len() int {
	return len(s.rows)
}

func (s *Store) Close() error {
	s.closed = true
	return nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	if !s.exists {
		return fmt.Errorf("table does not exist")
	}
	return nil
}

func (s *Store) insert(e bench.Employee) int64 {
	e.ID = s.nextID
	s.nextID++
	s.rows[e.ID] = e
	return e.ID
}

func (s *Store) update(e bench.Employee) int64 {
	if _, ok := s.rows[e.ID]; !ok {
		return 0
	}
	s.rows[e.ID] = e
	return 1
}
