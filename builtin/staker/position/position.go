// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/fixedpoint"
)

// Position is the record of one account in one pool. It is created by the first
// deposit and never deleted.
type Position struct {
	Staked     *uint256.Int
	RewardDebt *uint256.Int // Staked*acc/Precision at the last settlement
	Banked     *uint256.Int // settled reward not yet paid out
}

func (p *Position) normalize() {
	if p.Staked == nil {
		p.Staked = new(uint256.Int)
	}
	if p.RewardDebt == nil {
		p.RewardDebt = new(uint256.Int)
	}
	if p.Banked == nil {
		p.Banked = new(uint256.Int)
	}
}

// IsEmpty returns whether the position holds neither stake nor banked reward.
func (p *Position) IsEmpty() bool {
	return p.Staked.IsZero() && p.Banked.IsZero()
}

// Pending returns the reward owed to the position against accumulator acc.
func (p *Position) Pending(acc *uint256.Int) (*uint256.Int, error) {
	return fixedpoint.Pending(p.Staked, acc, p.RewardDebt, p.Banked)
}

// Settle banks the reward accrued since the last settlement and reprices the
// debt against acc. It must run before Staked changes.
func (p *Position) Settle(acc *uint256.Int) error {
	pending, err := p.Pending(acc)
	if err != nil {
		return err
	}
	p.Banked = pending
	return p.Reprice(acc)
}

// Reprice sets the reward debt to the current stake valued at acc.
func (p *Position) Reprice(acc *uint256.Int) error {
	debt, err := fixedpoint.Accrued(p.Staked, acc)
	if err != nil {
		return err
	}
	p.RewardDebt = debt
	return nil
}

// TakeBanked zeroes the banked reward and returns it.
func (p *Position) TakeBanked() *uint256.Int {
	amount := p.Banked
	p.Banked = new(uint256.Int)
	return amount
}
