// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ledger BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	tick INTEGER NOT NULL,
	pool INTEGER NOT NULL,
	account BLOB(20) NOT NULL,
	amount TEXT NOT NULL,
	aux INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(tick);
CREATE INDEX IF NOT EXISTS event_i1 ON event(account, pool);
CREATE INDEX IF NOT EXISTS event_i2 ON event(ledger, name);

CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);`

const selectEventsStmt = "SELECT seq, ledger, name, tick, pool, account, amount, aux FROM event"
