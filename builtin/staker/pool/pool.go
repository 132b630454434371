// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/thor"
)

type Pool struct {
	Asset          thor.Address // thor.NativeAsset for the native currency
	Weight         uint64
	MinDeposit     *uint256.Int
	LockDuration   uint64 // ticks an unstake request waits before it can be withdrawn
	WithdrawPaused bool

	TotalStaked       *uint256.Int
	AccRewardPerShare *uint256.Int // scaled by fixedpoint.Precision
	LastUpdateTick    uint64
}

// New returns a pool with an empty accumulator, last updated at tick.
func New(asset thor.Address, weight uint64, minDeposit *uint256.Int, lockDuration uint64, withdrawPaused bool, tick uint64) *Pool {
	p := &Pool{
		Asset:             asset,
		Weight:            weight,
		MinDeposit:        new(uint256.Int),
		LockDuration:      lockDuration,
		WithdrawPaused:    withdrawPaused,
		TotalStaked:       new(uint256.Int),
		AccRewardPerShare: new(uint256.Int),
		LastUpdateTick:    tick,
	}
	if minDeposit != nil {
		p.MinDeposit.Set(minDeposit)
	}
	return p
}

// Projected returns the accumulator as it would be after a sync at tick,
// without modifying the pool.
func (p *Pool) Projected(tick uint64, rewardPerTick *uint256.Int, totalWeight uint64) (*uint256.Int, error) {
	if tick <= p.LastUpdateTick || p.TotalStaked.IsZero() {
		return new(uint256.Int).Set(p.AccRewardPerShare), nil
	}
	reward, err := fixedpoint.Emission(tick-p.LastUpdateTick, rewardPerTick, p.Weight, totalWeight)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Grow(p.AccRewardPerShare, reward, p.TotalStaked)
}

// Sync distributes the pool's share of the reward emitted since the last update.
// The last update tick moves to tick even when nothing is staked, so an idle
// period is never credited to the next depositor.
func (p *Pool) Sync(tick uint64, rewardPerTick *uint256.Int, totalWeight uint64) error {
	acc, err := p.Projected(tick, rewardPerTick, totalWeight)
	if err != nil {
		return err
	}
	p.AccRewardPerShare = acc
	if tick > p.LastUpdateTick {
		p.LastUpdateTick = tick
	}
	return nil
}

func (p *Pool) IsNative() bool {
	return p.Asset.IsNative()
}
