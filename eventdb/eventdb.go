// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb indexes committed ledger events in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/thor"
)

const metaLastTick = "last-tick"

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
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
	// a memory db lives as long as its connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert stores events committed at tick in a single transaction.
func (db *EventDB) Insert(tick uint64, evs []*events.Event) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare("INSERT INTO event(ledger, name, tick, pool, account, amount, aux) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range evs {
		e := newEvent(ev)
		if _, err = stmt.Exec(
			e.Ledger.Bytes(),
			e.Name,
			e.Tick,
			e.Pool,
			e.Account.Bytes(),
			e.Amount.Dec(),
			e.Aux,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	if _, err = tx.Exec("INSERT OR REPLACE INTO meta(key, value) VALUES (?, ?)", metaLastTick, tick); err != nil {
		return errors.Wrap(err, "update last tick")
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	metricInsertedEvents().Add(int64(len(evs)))
	return nil
}

// LastTick returns the tick of the last insert.
func (db *EventDB) LastTick() (uint64, error) {
	var tick uint64
	err := db.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaLastTick).Scan(&tick)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return tick, err
}

// Filter returns the events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, selectEventsStmt+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var (
		args  []any
		conds []string
	)
	if filter.Range != nil {
		conds = append(conds, "tick >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			conds = append(conds, "tick <= ?")
			args = append(args, filter.Range.To)
		}
	}
	if filter.Ledger != nil {
		conds = append(conds, "ledger = ?")
		args = append(args, filter.Ledger.Bytes())
	}
	if filter.Pool != nil {
		conds = append(conds, "pool = ?")
		args = append(args, *filter.Pool)
	}
	if filter.Account != nil {
		conds = append(conds, "account = ?")
		args = append(args, filter.Account.Bytes())
	}
	if len(filter.Names) > 0 {
		conds = append(conds, "name IN (?"+strings.Repeat(", ?", len(filter.Names)-1)+")")
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}

	stmt := selectEventsStmt
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []*Event
	for rows.Next() {
		var (
			seq     uint64
			ledger  []byte
			name    string
			tick    uint64
			pool    uint64
			account []byte
			amount  string
			aux     uint64
		)
		if err := rows.Scan(&seq, &ledger, &name, &tick, &pool, &account, &amount, &aux); err != nil {
			return nil, err
		}
		value, err := uint256.FromDecimal(amount)
		if err != nil {
			return nil, errors.Wrapf(err, "event %d amount", seq)
		}
		evs = append(evs, &Event{
			Seq:     seq,
			Ledger:  thor.BytesToAddress(ledger),
			Name:    name,
			Tick:    tick,
			Pool:    pool,
			Account: thor.BytesToAddress(account),
			Amount:  value,
			Aux:     aux,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}
