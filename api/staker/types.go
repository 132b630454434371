// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/builtin/staker/pool"
	"github.com/vechain/stakepool/builtin/staker/position"
	"github.com/vechain/stakepool/builtin/staker/withdrawal"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

type Ledger struct {
	Address       thor.Address `json:"address"`
	Administrator thor.Address `json:"administrator"`
	Paused        bool         `json:"paused"`
	RewardAsset   thor.Address `json:"rewardAsset"`
	RewardPerTick *uint256.Int `json:"rewardPerTick"`
	TotalWeight   uint64       `json:"totalWeight"`
	PoolLength    uint64       `json:"poolLength"`
	Tick          uint64       `json:"tick"`
}

type Pool struct {
	ID                uint64       `json:"id"`
	Asset             thor.Address `json:"asset"`
	Weight            uint64       `json:"weight"`
	MinDeposit        *uint256.Int `json:"minDeposit"`
	LockDuration      uint64       `json:"lockDuration"`
	WithdrawPaused    bool         `json:"withdrawPaused"`
	TotalStaked       *uint256.Int `json:"totalStaked"`
	AccRewardPerShare *uint256.Int `json:"accRewardPerShare"`
	LastUpdateTick    uint64       `json:"lastUpdateTick"`
}

func convertPool(id uint64, p *pool.Pool) *Pool {
	return &Pool{
		ID:                id,
		Asset:             p.Asset,
		Weight:            p.Weight,
		MinDeposit:        p.MinDeposit,
		LockDuration:      p.LockDuration,
		WithdrawPaused:    p.WithdrawPaused,
		TotalStaked:       p.TotalStaked,
		AccRewardPerShare: p.AccRewardPerShare,
		LastUpdateTick:    p.LastUpdateTick,
	}
}

type Request struct {
	Amount     *uint256.Int `json:"amount"`
	UnlockTick uint64       `json:"unlockTick"`
	Unlocked   bool         `json:"unlocked"`
}

// Account is the position of an account in a pool together with its
// reward and withdrawal status.
type Account struct {
	Staked     *uint256.Int `json:"staked"`
	RewardDebt *uint256.Int `json:"rewardDebt"`
	Banked     *uint256.Int `json:"banked"`
	Pending    *uint256.Int `json:"pending"`
	Locked     *uint256.Int `json:"locked"`
	Unlocked   *uint256.Int `json:"unlocked"`
	Requests   []*Request   `json:"requests"`
}

func convertAccount(pos *position.Position, pending, locked, unlocked *uint256.Int, reqs []*withdrawal.Request, tick uint64) *Account {
	acc := &Account{
		Staked:     pos.Staked,
		RewardDebt: pos.RewardDebt,
		Banked:     pos.Banked,
		Pending:    pending,
		Locked:     locked,
		Unlocked:   unlocked,
		Requests:   make([]*Request, 0, len(reqs)),
	}
	for _, r := range reqs {
		acc.Requests = append(acc.Requests, &Request{
			Amount:     r.Amount,
			UnlockTick: r.UnlockTick,
			Unlocked:   r.Unlocked(tick),
		})
	}
	return acc
}

// Call identifies the account an operation is performed for.
type Call struct {
	Caller thor.Address `json:"caller"`
}

func (c *Call) call() *xenv.Call {
	return xenv.NewCall(c.Caller)
}

// DepositRequest deposits value into a native pool when only value is set,
// otherwise amount of the pool's token.
type DepositRequest struct {
	Call
	Amount *uint256.Int `json:"amount,omitempty"`
	Value  *uint256.Int `json:"value,omitempty"`
}

type UnstakeRequest struct {
	Call
	Amount *uint256.Int `json:"amount"`
}

type AddPoolRequest struct {
	Call
	Asset          thor.Address `json:"asset"`
	Weight         uint64       `json:"weight"`
	MinDeposit     *uint256.Int `json:"minDeposit,omitempty"`
	LockDuration   uint64       `json:"lockDuration"`
	WithdrawPaused bool         `json:"withdrawPaused"`
}

type WeightRequest struct {
	Call
	Weight uint64 `json:"weight"`
}

type ParamsRequest struct {
	Call
	MinDeposit   *uint256.Int `json:"minDeposit,omitempty"`
	LockDuration uint64       `json:"lockDuration"`
}

type WithdrawPausedRequest struct {
	Call
	Paused bool `json:"paused"`
}

type RateRequest struct {
	Call
	RewardPerTick *uint256.Int `json:"rewardPerTick"`
}

type AdministratorRequest struct {
	Call
	Administrator thor.Address `json:"administrator"`
}

// Receipt is responded for every successful operation.
type Receipt struct {
	Tick   uint64       `json:"tick"`
	PoolID *uint64      `json:"poolId,omitempty"`
	Amount *uint256.Int `json:"amount,omitempty"`
}
