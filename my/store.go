// Package my runs the binding benchmark against MySQL.
package my

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"bindbench/bench"
)

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

func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func NewStatements(table string) Statements {
	t := quote(table)
	n := bench.MaxNameLength
	return Statements{
		Exists: `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`,
		Create: fmt.Sprintf(`CREATE TABLE %s (
			id            INT AUTO_INCREMENT PRIMARY KEY,
			first_name    VARCHAR(%d) CHARACTER SET utf8mb4 NOT NULL,
			last_name     VARCHAR(%d) CHARACTER SET utf8mb4 NOT NULL,
			date_of_birth DATE NOT NULL,
			date_vested   DATETIME(6) NOT NULL
		)`, t, n, n),
		Truncate: fmt.Sprintf(`TRUNCATE TABLE %s`, t),
		Drop:     fmt.Sprintf(`DROP TABLE %s`, t),
		InsertPlain: fmt.Sprintf(`INSERT INTO %s (first_name, last_name, date_of_birth, date_vested)
			VALUES (?, ?, ?, ?)`, t),
		InsertTyped: fmt.Sprintf(`INSERT INTO %s (first_name, last_name, date_of_birth, date_vested)
			VALUES (CAST(? AS CHAR(%d)), CAST(? AS CHAR(%d)), CAST(? AS DATE), CAST(? AS DATETIME(6)))`, t, n, n),
		UpdatePlain: fmt.Sprintf(`UPDATE %s SET first_name = ?, last_name = ?, date_of_birth = ?, date_vested = ?
			WHERE id = ?`, t),
		UpdateTyped: fmt.Sprintf(`UPDATE %s SET first_name = CAST(? AS CHAR(%d)), last_name = CAST(? AS CHAR(%d)),
			date_of_birth = CAST(? AS DATE), date_vested = CAST(? AS DATETIME(6)) WHERE id = CAST(? AS SIGNED)`, t, n, n),
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

// TruncateTable empties the table; MySQL also resets AUTO_INCREMENT.
func (s *Store) TruncateTable(ctx context.Context) error {
	ok, err := s.exists(ctx)
	if err != nil || !ok {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.sql.Truncate); err != nil {
		return fmt.Errorf("truncate table: %w", err)
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
	args = append(args, sql.NullInt64{Int64: e.ID, Valid: true})
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

func typedArgs(e bench.Employee) ([]any, error) {
	if err := bench.CheckNames(e); err != nil {
		return nil, err
	}
	return []any{
		sql.NullString{String: e.FirstName, Valid: true},
		sql.NullString{String: e.LastName, Valid: true},
		sql.NullTime{Time: e.DateOfBirth, Valid: true},
		sql.NullTime{Time: e.DateVested, Valid: true},
	}, nil
}
