// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gate guards ledger operations: administrator checks, the global pause
// flag, the non-reentrant lock and all-or-nothing execution.
package gate

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "gate")

var (
	slotAdministrator = slot.Pos("gate-administrator")
	slotPaused        = slot.Pos("gate-paused")
)

// Authority decides who may run administrative operations.
type Authority interface {
	IsAdministrator(addr thor.Address) (bool, error)
}

// Gate is bound to one ledger contract. The administrator and the paused flag are
// ledger state, so they are reverted together with the operation that changed them.
type Gate struct {
	sctx          *slot.Context
	recorder      *events.Recorder
	administrator *slot.Address
	paused        *slot.Bool
	authority     Authority
	entered       atomic.Bool
}

// New creates a gate. A nil authority means the administrator stored in the
// ledger is the only authorized caller.
func New(sctx *slot.Context, recorder *events.Recorder, authority Authority) *Gate {
	return &Gate{
		sctx:          sctx,
		recorder:      recorder,
		administrator: slot.NewAddress(sctx, slotAdministrator),
		paused:        slot.NewBool(sctx, slotPaused),
		authority:     authority,
	}
}

func (g *Gate) Administrator() (thor.Address, error) {
	return g.administrator.Get()
}

func (g *Gate) SetAdministrator(addr thor.Address) {
	g.administrator.Set(addr)
}

// IsAdministrator implements Authority.
func (g *Gate) IsAdministrator(addr thor.Address) (bool, error) {
	if g.authority != nil {
		return g.authority.IsAdministrator(addr)
	}
	admin, err := g.administrator.Get()
	if err != nil {
		return false, err
	}
	return !admin.IsZero() && admin == addr, nil
}

func (g *Gate) RequireAdministrator(caller thor.Address) error {
	ok, err := g.IsAdministrator(caller)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessagef(reverts.ErrUnauthorized, "caller %v", caller)
	}
	return nil
}

func (g *Gate) Paused() (bool, error) {
	return g.paused.Get()
}

// SetPaused sets the global pause flag. Setting the current value again is allowed.
func (g *Gate) SetPaused(paused bool) {
	g.paused.Set(paused)
}

func (g *Gate) RequireNotPaused() error {
	paused, err := g.paused.Get()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

// Enter takes the non-reentrant lock of the ledger.
func (g *Gate) Enter() (release func(), err error) {
	if !g.entered.CompareAndSwap(false, true) {
		return nil, reverts.ErrReentrant
	}
	return func() { g.entered.Store(false) }, nil
}

// Guard runs fn holding the non-reentrant lock. When fn fails every state change
// and every event it produced is discarded.
func (g *Gate) Guard(fn func() error) error {
	release, err := g.Enter()
	if err != nil {
		return err
	}
	defer release()

	st := g.sctx.State()
	checkpoint := st.NewCheckpoint()
	mark := g.recorder.Mark()
	if err := fn(); err != nil {
		st.RevertTo(checkpoint)
		g.recorder.Truncate(mark)
		logger.Debug("operation reverted", "ledger", g.sctx.Address(), "error", err)
		return err
	}
	return nil
}
