// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the ledger contracts to their fixed addresses.
package builtin

import (
	"github.com/vechain/stakepool/builtin/rewardpool"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/gate"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/transfer"
)

// Builtin contracts binding.
var (
	Staker     = &stakerContract{thor.BytesToAddress([]byte("Staker"))}
	RewardPool = &rewardPoolContract{thor.BytesToAddress([]byte("RewardPool"))}
)

// Env is what a ledger needs besides its own storage.
type Env struct {
	State     *state.State
	Clock     clock.Clock
	Bank      *transfer.Bank
	Recorder  *events.Recorder
	Authority gate.Authority // nil for the administrator stored in the ledger
}

type (
	stakerContract     struct{ Address thor.Address }
	rewardPoolContract struct{ Address thor.Address }
)

func (c *stakerContract) Native(env *Env) *staker.Staker {
	return staker.New(c.Address, env.State, env.Clock, env.Bank.Custody(c.Address), env.Recorder, env.Authority)
}

func (c *rewardPoolContract) Native(env *Env) *rewardpool.RewardPool {
	return rewardpool.New(c.Address, env.State, env.Clock, env.Bank.Custody(c.Address), env.Recorder, env.Authority)
}
