package pgrepo

import (
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRow отдаёт заранее заданные значения в Scan.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

// fakeRows реализует только методы pgx.Rows, которыми пользуются репозитории.
type fakeRows struct {
	pgx.Rows
	rows   []fakeRow
	cursor int
	closed bool
}

func newFakeRows(rows ...[]any) *fakeRows {
	r := &fakeRows{cursor: -1}
	for _, values := range rows {
		r.rows = append(r.rows, fakeRow{values: values})
	}
	return r
}

func (r *fakeRows) Next() bool {
	r.cursor++
	return r.cursor < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return r.rows[r.cursor].Scan(dest...)
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() {
	r.closed = true
}

type fakeBatchResults struct {
	pgx.BatchResults
	execErrAt int
	execCalls int
	closed    bool
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	b.execCalls++
	if b.execErrAt == b.execCalls {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23514"}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (b *fakeBatchResults) Close() error {
	b.closed = true
	return nil
}
