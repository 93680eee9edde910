// Package pg runs the binding benchmark against PostgreSQL through pgx.
package pg

import (
	"context"
	"fmt"
	"iter"

	"bindbench/bench"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements is the SQL a Store issues for one table.
type Statements struct {
	Exists      string
	Create      string
	Truncate    string
	Drop        string
	InsertPlain string
	InsertTyped string
	UpdatePlain string
	UpdateTyped string
	SelectAll   string
}

func NewStatements(table string) Statements {
	t := pgx.Identifier{table}.Sanitize()
	return Statements{
		Exists: `SELECT to_regclass($1) IS NOT NULL`,
		Create: fmt.Sprintf(`CREATE TABLE %s (
			id            integer GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			first_name    varchar(%d) NOT NULL,
			last_name     varchar(%d) NOT NULL,
			date_of_birth date NOT NULL,
			date_vested   timestamp(6) NOT NULL
		)`, t, bench.MaxNameLength, bench.MaxNameLength),
		Truncate: fmt.Sprintf(`TRUNCATE TABLE %s RESTART IDENTITY`, t),
		Drop:     fmt.Sprintf(`DROP TABLE %s`, t),
		InsertPlain: fmt.Sprintf(`INSERT INTO %s (first_name, last_name, date_of_birth, date_vested)
			VALUES ($1, $2, $3, $4) RETURNING id`, t),
		InsertTyped: fmt.Sprintf(`INSERT INTO %s (first_name, last_name, date_of_birth, date_vested)
			VALUES ($1::varchar(%d), $2::varchar(%d), $3::date, $4::timestamp(6)) RETURNING id`,
			t, bench.MaxNameLength, bench.MaxNameLength),
		UpdatePlain: fmt.Sprintf(`UPDATE %s SET first_name = $1, last_name = $2, date_of_birth = $3, date_vested = $4
			WHERE id = $5`, t),
		UpdateTyped: fmt.Sprintf(`UPDATE %s SET first_name = $1::varchar(%d), last_name = $2::varchar(%d),
			date_of_birth = $3::date, date_vested = $4::timestamp(6) WHERE id = $5::integer`,
			t, bench.MaxNameLength, bench.MaxNameLength),
		SelectAll: fmt.Sprintf(`SELECT id, first_name, last_name, date_of_birth, date_vested FROM %s ORDER BY id`, t),
	}
}

type Store struct {
	pool  *pgxpool.Pool
	table string
	sql   Statements
}

// regclass is the to_regclass argument naming the same relation as the
// quoted identifier in Statements. An unquoted name would be case-folded and
// split on dots.
func regclass(table string) string {
	return pgx.Identifier{table}.Sanitize()
}

// Open connects to dsn and prepares a store for table.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	pool, err := Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return New(pool, table), nil
}

func New(pool *pgxpool.Pool, table string) *Store {
	return &Store{pool: pool, table: table, sql: NewStatements(table)}
}

func (s *Store) exists(ctx context.Context) (bool, error) {
	var ok bool
	if err := s.pool.QueryRow(ctx, s.sql.Exists, regclass(s.table)).Scan(&ok); err != nil {
		return false, fmt.Errorf("table check: %w", err)
	}
	return ok, nil
}

func (s *Store) CreateTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || ok {
		return err
	}
	if _, err := s.pool.Exec(ctx, s.sql.Create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *Store) TruncateTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || !ok {
		return err
	}
	if _, err := s.pool.Exec(ctx, s.sql.Truncate); err != nil {
		return fmt.Errorf("truncate table: %w", err)
	}
	return nil
}

func (s *Store) DropTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || !ok {
		return err
	}
	if _, err := s.pool.Exec(ctx, s.sql.Drop); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	return nil
}

// AddSimple binds plain Go values and lets pgx pick the encoding.
func (s *Store) AddSimple(ctx context.Context, e bench.Employee) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, s.sql.InsertPlain,
		e.FirstName, e.LastName, e.DateOfBirth, e.DateVested).Scan(&id)
	return id, err
}

// AddTyped binds pgtype values against explicitly cast parameters.
func (s *Store) AddTyped(ctx context.Context, e bench.Employee) (int64, error) {
	args, err := typedArgs(e)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.pool.QueryRow(ctx, s.sql.InsertTyped, args...).Scan(&id)
	return id, err
}

func (s *Store) UpdateSimple(ctx context.Context, e bench.Employee) (int64, error) {
	tag, err := s.pool.Exec(ctx, s.sql.UpdatePlain,
		e.FirstName, e.LastName, e.DateOfBirth, e.DateVested, e.ID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UpdateTyped(ctx context.Context, e bench.Employee) (int64, error) {
	args, err := typedArgs(e)
	if err != nil {
		return 0, err
	}
	args = append(args, pgtype.Int4{Int32: int32(e.ID), Valid: true})
	tag, err := s.pool.Exec(ctx, s.sql.UpdateTyped, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) GetAll(ctx context.Context) iter.Seq2[bench.Employee, error] {
	return func(yield func(bench.Employee, error) bool) {
		rows, err := s.pool.Query(ctx, s.sql.SelectAll)
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
	s.pool.Close()
	return nil
}

func typedArgs(e bench.Employee) ([]any, error) {
	if err := bench.CheckNames(e); err != nil {
		return nil, err
	}
	return []any{
		pgtype.Text{String: e.FirstName, Valid: true},
		pgtype.Text{String: e.LastName, Valid: true},
		pgtype.Date{Time: e.DateOfBirth, Valid: true},
		pgtype.Timestamp{Time: e.DateVested, Valid: true},
	}, nil
}
