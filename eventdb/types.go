// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/thor"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Event is a stored ledger event. Seq is assigned on insert and orders events
// of the same tick.
type Event struct {
	Seq     uint64
	Ledger  thor.Address
	Name    string
	Tick    uint64
	Pool    uint64
	Account thor.Address
	Amount  *uint256.Int
	Aux     uint64
}

func newEvent(ev *events.Event) *Event {
	amount := new(uint256.Int)
	if ev.Amount != nil {
		amount.Set(ev.Amount)
	}
	return &Event{
		Ledger:  ev.Ledger,
		Name:    ev.Name,
		Tick:    ev.Tick,
		Pool:    ev.Pool,
		Account: ev.Account,
		Amount:  amount,
		Aux:     ev.Aux,
	}
}

type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Ledger  *thor.Address
	Pool    *uint64
	Account *thor.Address
	Names   []string
	Range   *Range
	Order   Order // default asc
	Options *Options
}
