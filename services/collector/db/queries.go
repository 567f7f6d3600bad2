package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const putSnapshot = `insert into snapshots (kind, day, fetched_at, payload)
values (?, ?, ?, ?)
on conflict (kind, day) do update set fetched_at = excluded.fetched_at, payload = excluded.payload`

type PutSnapshotParams struct {
	Kind      string
	Day       string
	FetchedAt int64
	Payload   []byte
}

func (q *Queries) PutSnapshot(ctx context.Context, arg PutSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, putSnapshot, arg.Kind, arg.Day, arg.FetchedAt, arg.Payload)
	return err
}

const getSnapshot = `select payload from snapshots where kind = ? and day = ?`

type GetSnapshotParams struct {
	Kind string
	Day  string
}

func (q *Queries) GetSnapshot(ctx context.Context, arg GetSnapshotParams) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getSnapshot, arg.Kind, arg.Day)
	var payload []byte
	err := row.Scan(&payload)
	return payload, err
}

const markMonthCollected = `insert into collected_months (year, month, completed_at)
values (?, ?, ?)
on conflict (year, month) do update set completed_at = excluded.completed_at`

type MarkMonthCollectedParams struct {
	Year        int64
	Month       int64
	CompletedAt int64
}

func (q *Queries) MarkMonthCollected(ctx context.Context, arg MarkMonthCollectedParams) error {
	_, err := q.db.ExecContext(ctx, markMonthCollected, arg.Year, arg.Month, arg.CompletedAt)
	return err
}

const getMonthCollected = `select completed_at from collected_months where year = ? and month = ?`

type GetMonthCollectedParams struct {
	Year  int64
	Month int64
}

func (q *Queries) GetMonthCollected(ctx context.Context, arg GetMonthCollectedParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMonthCollected, arg.Year, arg.Month)
	var completedAt int64
	err := row.Scan(&completedAt)
	return completedAt, err
}
