// Package lite runs the binding benchmark against an SQLite file.
//
// SQLite has no sized column types, so the declared name bound is a CHECK
// constraint. The typed strategy casts every parameter and binds values
// already rendered the way the driver would render them, which keeps the
// stored text identical across strategies.
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	"bindbench/bench"

	"github.com/mattn/go-sqlite3"
)

type Statements struct {
	Exists        string
	Create        string
	Truncate      string
	ResetSequence string
	Drop          string
	InsertPlain   string
	InsertTyped   string
	UpdatePlain   string
	UpdateTyped   string
	SelectAll     string
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func NewStatements(table string) Statements {
	t := quote(table)
	n := bench.MaxNameLength
	return Statements{
		Exists: `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		Create: fmt.Sprintf(`CREATE TABLE %s (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name    VARCHAR(%d) NOT NULL CHECK (length(first_name) <= %d),
			last_name     VARCHAR(%d) NOT NULL CHECK (length(last_name) <= %d),
			date_of_birth DATE NOT NULL,
			date_vested   TIMESTAMP NOT NULL
		)`, t, n, n, n, n),
		Truncate:      fmt.Sprintf(`DELETE FROM %s`, t),
		ResetSequence: `DELETE FROM sqlite_sequence WHERE name = ?`,
		Drop:          fmt.Sprintf(`DROP TABLE %s`, t),
		InsertPlain: fmt.Sprintf(`INSERT INTO %s (first_name, last_name, date_of_birth, date_vested)
			VALUES (?, ?, ?, ?)`, t),
		InsertTyped: fmt.Sprintf(`INSERT INTO %s (first_name, last_name, date_of_birth, date_vested)
			VALUES (CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS TEXT))`, t),
		UpdatePlain: fmt.Sprintf(`UPDATE %s SET first_name = ?, last_name = ?, date_of_birth = ?, date_vested = ?
			WHERE id = ?`, t),
		UpdateTyped: fmt.Sprintf(`UPDATE %s SET first_name = CAST(? AS TEXT), last_name = CAST(? AS TEXT),
			date_of_birth = CAST(? AS TEXT), date_vested = CAST(? AS TEXT) WHERE id = CAST(? AS INTEGER)`, t),
		SelectAll: fmt.Sprintf(`SELECT id, first_name, last_name, date_of_birth, date_vested FROM %s ORDER BY id`, t),
	}
}

type Store struct {
	db    *sql.DB
	table string
	sql   Statements
}

func Open(ctx context.Context, dsn, table string) (*Store, error) {
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return New(db, table), nil
}

func New(db *sql.DB, table string) *Store {
	return &Store{db: db, table: table, sql: NewStatements(table)}
}

func (s *Store) exists(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, s.sql.Exists, s.table).Scan(&count); err != nil {
		return false, fmt.Errorf("table check: %w", err)
	}
	return count > 0, nil
}

func (s *Store) CreateTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || ok {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.sql.Create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// TruncateTable deletes every row and restarts the AUTOINCREMENT counter.
func (s *Store) TruncateTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || !ok {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.sql.Truncate); err != nil {
		return fmt.Errorf("truncate table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.sql.ResetSequence, s.table); err != nil {
		return fmt.Errorf("reset sequence: %w", err)
	}
	return nil
}

func (s *Store) DropTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || !ok {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.sql.Drop); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	return nil
}

func (s *Store) AddSimple(ctx context.Context, e bench.Employee) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.sql.InsertPlain,
		e.FirstName, e.LastName, e.DateOfBirth, e.DateVested)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) AddTyped(ctx context.Context, e bench.Employee) (int64, error) {
	args, err := typedArgs(e)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, s.sql.InsertTyped, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) UpdateSimple(ctx context.Context, e bench.Employee) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.sql.UpdatePlain,
		e.FirstName, e.LastName, e.DateOfBirth, e.DateVested, e.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UpdateTyped(ctx context.Context, e bench.Employee) (int64, error) {
	args, err := typedArgs(e)
	if err != nil {
		return 0, err
	}
	args = append(args, e.ID)
	res, err := s.db.ExecContext(ctx, s.sql.UpdateTyped, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) GetAll(ctx context.Context) iter.Seq2[bench.Employee, error] {
	return func(yield func(bench.Employee, error) bool) {
		rows, err := s.db.QueryContext(ctx, s.sql.SelectAll)
		if err != nil {
			yield(bench.Employee{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e bench.Employee
			if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.DateOfBirth, &e.DateVested); err != nil {
				yield(bench.Employee{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(bench.Employee{}, err)
		}
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// FormatTime renders t exactly as the driver stores a bound time.Time.
func FormatTime(t time.Time) string {
	return t.Format(sqlite3.SQLiteTimestampFormats[0])
}

func typedArgs(e bench.Employee) ([]any, error) {
	if err := bench.CheckNames(e); err != nil {
		return nil, err
	}
	return []any{
		e.FirstName,
		e.LastName,
		FormatTime(e.DateOfBirth),
		FormatTime(e.DateVested),
	}, nil
}
