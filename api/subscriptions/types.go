// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/thor"
)

type EventMessage struct {
	Ledger  thor.Address `json:"ledger"`
	Name    string       `json:"name"`
	Tick    uint64       `json:"tick"`
	Pool    uint64       `json:"pool"`
	Account thor.Address `json:"account"`
	Amount  *uint256.Int `json:"amount"`
	Aux     uint64       `json:"aux"`
}

func convertEvent(ev *events.Event) *EventMessage {
	return &EventMessage{
		Ledger:  ev.Ledger,
		Name:    ev.Name,
		Tick:    ev.Tick,
		Pool:    ev.Pool,
		Account: ev.Account,
		Amount:  ev.Amount,
		Aux:     ev.Aux,
	}
}

// EventFilter selects the events delivered to a subscriber. Nil fields match everything.
type EventFilter struct {
	Ledger  *thor.Address
	Pool    *uint64
	Account *thor.Address
	Names   map[string]bool
}

func parseEventFilter(query url.Values) (*EventFilter, error) {
	var f EventFilter
	if s := query.Get("ledger"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "ledger")
		}
		f.Ledger = &addr
	}
	if s := query.Get("pool"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "pool")
		}
		f.Pool = &n
	}
	if s := query.Get("account"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		f.Account = &addr
	}
	if names := query["name"]; len(names) > 0 {
		f.Names = make(map[string]bool, len(names))
		for _, name := range names {
			f.Names[name] = true
		}
	}
	return &f, nil
}

func (f *EventFilter) Match(ev *events.Event) bool {
	if f.Ledger != nil && *f.Ledger != ev.Ledger {
		return false
	}
	if f.Pool != nil && *f.Pool != ev.Pool {
		return false
	}
	if f.Account != nil && *f.Account != ev.Account {
		return false
	}
	if f.Names != nil && !f.Names[ev.Name] {
		return false
	}
	return true
}
