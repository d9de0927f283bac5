// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists committed lifecycle transitions in sqlite for
// offline inspection and API queries.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/tierlock"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS stake_event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL,
	account BLOB(20) NOT NULL,
	position INTEGER NOT NULL,
	amount TEXT NOT NULL,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS stake_event_i0 ON stake_event(account);
CREATE INDEX IF NOT EXISTS stake_event_i1 ON stake_event(position);`

// Event is one committed lifecycle transition.
type Event struct {
	Seq      uint64
	Op       string
	Account  tierlock.Address
	Position uint64
	Amount   *big.Int
	Ts       uint64
}

// Filter narrows an event query. Zero values match everything.
type Filter struct {
	Account  *tierlock.Address
	Position uint64
	Op       string
	Limit    uint64
}

// EventDB is an append-only sqlite event log.
type EventDB struct {
	path string
	db   *sql.DB
}

// New creates or opens the event db at the given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &EventDB{path, db}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close closes the event db.
func (db *EventDB) Close() {
	db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// RecordStakeEvent appends one transition. It implements the recorder
// hook of the lifecycle engine.
func (db *EventDB) RecordStakeEvent(op string, account tierlock.Address, position uint64, amount *big.Int, ts uint64) error {
	if amount == nil {
		amount = new(big.Int)
	}
	_, err := db.db.Exec(
		"INSERT INTO stake_event(op, account, position, amount, ts) VALUES(?,?,?,?,?)",
		op, account.Bytes(), position, amount.String(), ts,
	)
	return errors.Wrap(err, "failed to record event")
}

// Filter returns matching events in insertion order.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	stmt := "SELECT seq, op, account, position, amount, ts FROM stake_event WHERE 1"
	var args []any
	if filter != nil {
		if filter.Account != nil {
			stmt += " AND account = ?"
			args = append(args, filter.Account.Bytes())
		}
		if filter.Position != 0 {
			stmt += " AND position = ?"
			args = append(args, filter.Position)
		}
		if filter.Op != "" {
			stmt += " AND op = ?"
			args = append(args, filter.Op)
		}
	}
	stmt += " ORDER BY seq"
	if filter != nil && filter.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev      Event
			account []byte
			amount  string
		)
		if err := rows.Scan(&ev.Seq, &ev.Op, &account, &ev.Position, &amount, &ev.Ts); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		ev.Account = tierlock.BytesToAddress(account)
		var ok bool
		if ev.Amount, ok = new(big.Int).SetString(amount, 10); !ok {
			return nil, errors.Errorf("bad amount %q at seq %d", amount, ev.Seq)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
