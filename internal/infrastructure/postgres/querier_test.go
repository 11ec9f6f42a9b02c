package postgres

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errUnexpectedQuery = errors.New("consulta inesperada")

// recordingQuerier registra cada SQL recibido y falla todas las consultas.
type recordingQuerier struct {
	mu    sync.Mutex
	calls []string
}

func (q *recordingQuerier) record(sql string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, sql)
}

func (q *recordingQuerier) Calls() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.calls...)
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.record(sql)
	return pgconn.CommandTag{}, errUnexpectedQuery
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.record(sql)
	return nil, errUnexpectedQuery
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.record(sql)
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errUnexpectedQuery }
