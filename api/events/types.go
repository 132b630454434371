// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/thor"
)

type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	Ledger  *thor.Address `json:"ledger,omitempty"`
	Pool    *uint64       `json:"pool,omitempty"`
	Account *thor.Address `json:"account,omitempty"`
	Names   []string      `json:"names,omitempty"`
	Range   *Range        `json:"range,omitempty"`
	Options *Options      `json:"options,omitempty"`
	Order   eventdb.Order `json:"order,omitempty"`
}

func convertFilter(ef *EventFilter) *eventdb.Filter {
	f := &eventdb.Filter{
		Ledger:  ef.Ledger,
		Pool:    ef.Pool,
		Account: ef.Account,
		Names:   ef.Names,
		Order:   ef.Order,
	}
	if ef.Range != nil {
		f.Range = &eventdb.Range{To: math.MaxInt64}
		if ef.Range.From != nil {
			f.Range.From = *ef.Range.From
		}
		if ef.Range.To != nil && *ef.Range.To < math.MaxInt64 {
			f.Range.To = *ef.Range.To
		}
	}
	if ef.Options != nil {
		f.Options = &eventdb.Options{
			Offset: ef.Options.Offset,
			Limit:  ef.Options.Limit,
		}
	}
	return f
}

type FilteredEvent struct {
	Seq     uint64       `json:"seq"`
	Ledger  thor.Address `json:"ledger"`
	Name    string       `json:"name"`
	Tick    uint64       `json:"tick"`
	Pool    uint64       `json:"pool"`
	Account thor.Address `json:"account"`
	Amount  *uint256.Int `json:"amount"`
	Aux     uint64       `json:"aux"`
}

func convertEvent(ev *eventdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Seq:     ev.Seq,
		Ledger:  ev.Ledger,
		Name:    ev.Name,
		Tick:    ev.Tick,
		Pool:    ev.Pool,
		Account: ev.Account,
		Amount:  ev.Amount,
		Aux:     ev.Aux,
	}
}
