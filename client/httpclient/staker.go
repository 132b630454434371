// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"fmt"

	"github.com/vechain/stakepool/api/staker"
	"github.com/vechain/stakepool/thor"
)

// GetStaker retrieves the global parameters of the staker.
func (c *Client) GetStaker() (*staker.Ledger, error) {
	var ledger staker.Ledger
	if err := c.get("/staker", &ledger); err != nil {
		return nil, fmt.Errorf("unable to retrieve staker - %w", err)
	}
	return &ledger, nil
}

// GetPools retrieves every pool of the staker ordered by id.
func (c *Client) GetPools() ([]*staker.Pool, error) {
	var pools []*staker.Pool
	if err := c.get("/staker/pools", &pools); err != nil {
		return nil, fmt.Errorf("unable to retrieve pools - %w", err)
	}
	return pools, nil
}

// GetPool retrieves the pool with the given id.
func (c *Client) GetPool(id uint64) (*staker.Pool, error) {
	var p staker.Pool
	if err := c.get(poolPath(id), &p); err != nil {
		return nil, fmt.Errorf("unable to retrieve pool %d - %w", id, err)
	}
	return &p, nil
}

// GetStakerAccount retrieves the position of account in the pool.
func (c *Client) GetStakerAccount(id uint64, account thor.Address) (*staker.Account, error) {
	var acc staker.Account
	if err := c.get(poolPath(id)+"/accounts/"+account.String(), &acc); err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}
	return &acc, nil
}

// AddPool registers a pool and returns the receipt carrying its id.
func (c *Client) AddPool(req *staker.AddPoolRequest) (*staker.Receipt, error) {
	return c.stakerOp("/staker/pools", req, "add pool")
}

func (c *Client) Deposit(id uint64, req *staker.DepositRequest) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/deposit", req, "deposit")
}

func (c *Client) Unstake(id uint64, req *staker.UnstakeRequest) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/unstake", req, "unstake")
}

// Withdraw pays out the unlocked requests of caller, the amount is in the receipt.
func (c *Client) Withdraw(id uint64, caller thor.Address) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/withdraw", &staker.Call{Caller: caller}, "withdraw")
}

// Claim pays out the pending reward of caller, the amount is in the receipt.
func (c *Client) Claim(id uint64, caller thor.Address) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/claim", &staker.Call{Caller: caller}, "claim")
}

func (c *Client) UpdatePool(id uint64) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/update", nil, "update pool")
}

func (c *Client) MassUpdatePools() (*staker.Receipt, error) {
	return c.stakerOp("/staker/pools/update", nil, "mass update pools")
}

func (c *Client) SetPoolWeight(id uint64, req *staker.WeightRequest) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/weight", req, "set pool weight")
}

func (c *Client) SetPoolParams(id uint64, req *staker.ParamsRequest) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/params", req, "set pool params")
}

func (c *Client) SetWithdrawPaused(id uint64, req *staker.WithdrawPausedRequest) (*staker.Receipt, error) {
	return c.stakerOp(poolPath(id)+"/withdraw-paused", req, "set withdraw paused")
}

func (c *Client) SetRewardPerTick(req *staker.RateRequest) (*staker.Receipt, error) {
	return c.stakerOp("/staker/reward-per-tick", req, "set reward per tick")
}

func (c *Client) PauseStaker(caller thor.Address) (*staker.Receipt, error) {
	return c.stakerOp("/staker/pause", &staker.Call{Caller: caller}, "pause")
}

func (c *Client) UnpauseStaker(caller thor.Address) (*staker.Receipt, error) {
	return c.stakerOp("/staker/unpause", &staker.Call{Caller: caller}, "unpause")
}

func (c *Client) TransferStakerAdministrator(req *staker.AdministratorRequest) (*staker.Receipt, error) {
	return c.stakerOp("/staker/administrator", req, "transfer administrator")
}

func (c *Client) stakerOp(path string, req any, what string) (*staker.Receipt, error) {
	var r staker.Receipt
	if err := c.post(path, req, &r); err != nil {
		return nil, fmt.Errorf("unable to %s - %w", what, err)
	}
	return &r, nil
}
