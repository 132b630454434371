// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"fmt"

	"github.com/vechain/stakepool/api/rewardpool"
	"github.com/vechain/stakepool/thor"
)

// GetRewardPool retrieves the state of the reward pool.
func (c *Client) GetRewardPool() (*rewardpool.Ledger, error) {
	var ledger rewardpool.Ledger
	if err := c.get("/rewardpool", &ledger); err != nil {
		return nil, fmt.Errorf("unable to retrieve reward pool - %w", err)
	}
	return &ledger, nil
}

// GetRewardPoolAccount retrieves the position of account in the reward pool.
func (c *Client) GetRewardPoolAccount(account thor.Address) (*rewardpool.Account, error) {
	var acc rewardpool.Account
	if err := c.get("/rewardpool/accounts/"+account.String(), &acc); err != nil {
		return nil, fmt.Errorf("unable to retrieve reward pool account - %w", err)
	}
	return &acc, nil
}

func (c *Client) RewardPoolDeposit(req *rewardpool.AmountRequest) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/deposit", req, "deposit")
}

// RewardPoolWithdraw returns the stake and pays the pending reward, which is
// reported in the receipt.
func (c *Client) RewardPoolWithdraw(req *rewardpool.AmountRequest) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/withdraw", req, "withdraw")
}

func (c *Client) RewardPoolClaim(caller thor.Address) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/claim", &rewardpool.Call{Caller: caller}, "claim")
}

func (c *Client) SetRewardPoolRate(req *rewardpool.RateRequest) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/reward-per-tick", req, "set reward per tick")
}

func (c *Client) PauseRewardPool(caller thor.Address) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/pause", &rewardpool.Call{Caller: caller}, "pause")
}

func (c *Client) UnpauseRewardPool(caller thor.Address) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/unpause", &rewardpool.Call{Caller: caller}, "unpause")
}

func (c *Client) TransferRewardPoolAdministrator(req *rewardpool.AdministratorRequest) (*rewardpool.Receipt, error) {
	return c.rewardPoolOp("/administrator", req, "transfer administrator")
}

func (c *Client) rewardPoolOp(path string, req any, what string) (*rewardpool.Receipt, error) {
	var r rewardpool.Receipt
	if err := c.post("/rewardpool"+path, req, &r); err != nil {
		return nil, fmt.Errorf("unable to %s - %w", what, err)
	}
	return &r, nil
}
