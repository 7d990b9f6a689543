package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
)

const runsDDL = `
CREATE TABLE IF NOT EXISTS %s (
    run_id      String,
    ts          DateTime64(3),
    teams       Array(String),
    sessions    UInt32,
    people      UInt32,
    status      LowCardinality(String),
    objective   Float64,
    duration_ms UInt64,
    result      String
) ENGINE = MergeTree
ORDER BY ts`

// ClickHouseOptions configures the ClickHouse-backed store.
type ClickHouseOptions struct {
	Addr     string `json:"addr"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	Table    string `json:"table"`
}

// ClickHouseStore persists run records in a ClickHouse table.
type ClickHouseStore struct {
	conn  clickhouse.Conn
	table string
}

// NewClickHouseStore connects, pings and ensures the runs table exists.
func NewClickHouseStore(ctx context.Context, opts ClickHouseOptions) (*ClickHouseStore, error) {
	if opts.Table == "" {
		opts.Table = "optimization_runs"
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	s := &ClickHouseStore{conn: conn, table: opts.Table}
	if err := conn.Exec(ctx, fmt.Sprintf(runsDDL, opts.Table)); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Append inserts one run record.
func (s *ClickHouseStore) Append(ctx context.Context, rec RunRecord) error {
	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", s.table))
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return err
	}
	if err := batch.Append(
		rec.RunID,
		rec.Timestamp,
		rec.Teams,
		uint32(rec.Sessions),
		uint32(rec.People),
		rec.Status,
		rec.Objective,
		uint64(rec.Duration.Milliseconds()),
		string(payload),
	); err != nil {
		return fmt.Errorf("batch append: %w", err)
	}
	return batch.Send()
}

// Query returns records in the given time range, newest first.
func (s *ClickHouseStore) Query(ctx context.Context, q Query) ([]RunRecord, error) {
	sql := fmt.Sprintf("SELECT run_id, ts, teams, sessions, people, status, objective, duration_ms, result FROM %s", s.table)
	var args []any
	switch {
	case !q.Start.IsZero() && !q.End.IsZero():
		sql += " WHERE ts >= ? AND ts <= ?"
		args = append(args, q.Start, q.End)
	case !q.Start.IsZero():
		sql += " WHERE ts >= ?"
		args = append(args, q.Start)
	case !q.End.IsZero():
		sql += " WHERE ts <= ?"
		args = append(args, q.End)
	}
	sql += " ORDER BY ts DESC"
	if q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []RunRecord
	for rows.Next() {
		var (
			rec        RunRecord
			sessions   uint32
			people     uint32
			durationMS uint64
			payload    string
		)
		if err := rows.Scan(&rec.RunID, &rec.Timestamp, &rec.Teams, &sessions, &people,
			&rec.Status, &rec.Objective, &durationMS, &payload); err != nil {
			return nil, err
		}
		rec.Sessions = int(sessions)
		rec.People = int(people)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(payload), &rec.Result); err != nil {
			return nil, fmt.Errorf("decode result of run %s: %w", rec.RunID, err)
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Close releases the connection.
func (s *ClickHouseStore) Close() error { return s.conn.Close() }
