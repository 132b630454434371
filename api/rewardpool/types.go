// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

type Ledger struct {
	Address           thor.Address `json:"address"`
	Administrator     thor.Address `json:"administrator"`
	Paused            bool         `json:"paused"`
	StakeAsset        thor.Address `json:"stakeAsset"`
	RewardAsset       thor.Address `json:"rewardAsset"`
	RewardPerTick     *uint256.Int `json:"rewardPerTick"`
	TotalStaked       *uint256.Int `json:"totalStaked"`
	AccRewardPerShare *uint256.Int `json:"accRewardPerShare"`
	LastUpdateTick    uint64       `json:"lastUpdateTick"`
	Tick              uint64       `json:"tick"`
}

type Account struct {
	Staked     *uint256.Int `json:"staked"`
	RewardDebt *uint256.Int `json:"rewardDebt"`
	Banked     *uint256.Int `json:"banked"`
	Pending    *uint256.Int `json:"pending"`
}

type Call struct {
	Caller thor.Address `json:"caller"`
}

func (c *Call) call() *xenv.Call {
	return xenv.NewCall(c.Caller)
}

// AmountRequest carries the amount of a deposit or withdrawal. Deposits of
// the native asset attach value equal to amount.
type AmountRequest struct {
	Call
	Amount *uint256.Int `json:"amount"`
	Value  *uint256.Int `json:"value,omitempty"`
}

type RateRequest struct {
	Call
	RewardPerTick *uint256.Int `json:"rewardPerTick"`
}

type AdministratorRequest struct {
	Call
	Administrator thor.Address `json:"administrator"`
}

type Receipt struct {
	Tick   uint64       `json:"tick"`
	Reward *uint256.Int `json:"reward,omitempty"`
}
