// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

// Event names emitted by the ledgers.
const (
	Deposit              = "Deposit"
	Unstake              = "Unstake"
	Withdraw             = "Withdraw"
	Claim                = "Claim"
	AddPool              = "AddPool"
	SetPoolWeight        = "SetPoolWeight"
	SetPoolParams        = "SetPoolParams"
	SetWithdrawPaused    = "SetWithdrawPaused"
	SetRewardPerTick     = "SetRewardPerTick"
	UpdatePool           = "UpdatePool"
	Paused               = "Paused"
	Unpaused             = "Unpaused"
	AdministratorChanged = "AdministratorChanged"
	Initialized          = "Initialized"
)

// Event is a record of a successful ledger operation.
// Aux carries a secondary value such as an unlock tick or a pool weight.
type Event struct {
	Ledger  thor.Address
	Name    string
	Tick    uint64
	Pool    uint64
	Account thor.Address
	Amount  *uint256.Int
	Aux     uint64
}

// Recorder buffers events until the operations emitting them are committed.
type Recorder struct {
	lock   sync.Mutex
	events []*Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Add appends an event.
func (r *Recorder) Add(ev *Event) {
	if ev.Amount == nil {
		ev.Amount = new(uint256.Int)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, ev)
}

// Mark returns the current position, for use with Truncate.
func (r *Recorder) Mark() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.events)
}

// Truncate drops every event added after mark.
func (r *Recorder) Truncate(mark int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if mark < len(r.events) {
		r.events = r.events[:mark]
	}
}

// Drain returns the buffered events and empties the buffer.
func (r *Recorder) Drain() []*Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	evs := r.events
	r.events = nil
	return evs
}
