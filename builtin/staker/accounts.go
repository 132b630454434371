// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker/withdrawal"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/xenv"
)

// DepositNative stakes the native value attached to the call.
func (s *Staker) DepositNative(call *xenv.Call, poolID uint64) error {
	return s.deposit(call, poolID, call.AttachedValue(), true)
}

// DepositToken stakes amount of the pool's token. The call must not carry native value.
func (s *Staker) DepositToken(call *xenv.Call, poolID uint64, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	return s.deposit(call, poolID, amount, false)
}

func (s *Staker) deposit(call *xenv.Call, poolID uint64, amount *uint256.Int, native bool) error {
	logger.Debug("depositing", "pool", poolID, "account", call.Caller, "amount", amount, "native", native)

	err := s.gate.Guard(func() error {
		if err := s.requireActive(); err != nil {
			return err
		}
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		if p.IsNative() != native {
			return errors.WithMessagef(reverts.ErrAssetMismatch, "pool %d stakes %v", poolID, p.Asset)
		}
		if !native && call.HasValue() {
			return errors.WithMessagef(reverts.ErrValueMismatch, "token deposit carries value %v", call.Value)
		}
		if amount.IsZero() {
			return errors.WithMessage(reverts.ErrInvalidAmount, "deposit amount is zero")
		}

		tick := s.clock.Tick()
		if p, err = s.syncPool(poolID, tick); err != nil {
			return err
		}
		pos, err := s.positions.Get(poolID, call.Caller)
		if err != nil {
			return err
		}
		if pos.Staked.IsZero() && amount.Lt(p.MinDeposit) {
			return errors.WithMessagef(reverts.ErrInvalidAmount, "deposit %v below minimum %v", amount, p.MinDeposit)
		}
		if err := pos.Settle(p.AccRewardPerShare); err != nil {
			return err
		}
		if pos.Staked, err = fixedpoint.Add(pos.Staked, amount); err != nil {
			return err
		}
		if err := pos.Reprice(p.AccRewardPerShare); err != nil {
			return err
		}
		if p.TotalStaked, err = fixedpoint.Add(p.TotalStaked, amount); err != nil {
			return err
		}
		if err := s.positions.Set(poolID, call.Caller, pos); err != nil {
			return err
		}
		if err := s.pools.Set(poolID, p); err != nil {
			return err
		}
		if err := s.transferIn(p.Asset, call.Caller, amount); err != nil {
			return err
		}
		s.emit(events.Deposit, poolID, call.Caller, amount, 0)
		return nil
	})
	return s.done("Deposit", err, "pool", poolID, "account", call.Caller)
}

// Unstake moves amount out of the stake into the withdrawal queue. The reward
// accrued so far is banked for a later claim.
func (s *Staker) Unstake(call *xenv.Call, poolID uint64, amount *uint256.Int) error {
	logger.Debug("unstaking", "pool", poolID, "account", call.Caller, "amount", amount)

	err := s.gate.Guard(func() error {
		if err := s.requireActive(); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return errors.WithMessage(reverts.ErrInvalidAmount, "unstake amount is zero")
		}
		tick := s.clock.Tick()
		p, err := s.syncPool(poolID, tick)
		if err != nil {
			return err
		}
		pos, err := s.positions.Get(poolID, call.Caller)
		if err != nil {
			return err
		}
		if amount.Gt(pos.Staked) {
			return errors.WithMessagef(reverts.ErrInvalidAmount, "unstake %v exceeds stake %v", amount, pos.Staked)
		}
		if err := pos.Settle(p.AccRewardPerShare); err != nil {
			return err
		}
		pos.Staked = new(uint256.Int).Sub(pos.Staked, amount)
		if err := pos.Reprice(p.AccRewardPerShare); err != nil {
			return err
		}
		if p.TotalStaked, err = fixedpoint.Sub(p.TotalStaked, amount); err != nil {
			return err
		}
		unlockTick := tick + p.LockDuration
		if unlockTick < tick {
			return errors.WithMessagef(reverts.ErrOverflow, "unlock tick %d + %d", tick, p.LockDuration)
		}
		if err := s.positions.Set(poolID, call.Caller, pos); err != nil {
			return err
		}
		if err := s.pools.Set(poolID, p); err != nil {
			return err
		}
		req := &withdrawal.Request{Amount: new(uint256.Int).Set(amount), UnlockTick: unlockTick}
		if err := s.withdrawals.Push(poolID, call.Caller, req); err != nil {
			return err
		}
		s.emit(events.Unstake, poolID, call.Caller, amount, unlockTick)
		return nil
	})
	return s.done("Unstake", err, "pool", poolID, "account", call.Caller)
}

// Withdraw transfers every unlocked request of the caller in the pool and
// returns the sum. Nothing unlocked is not an error.
func (s *Staker) Withdraw(call *xenv.Call, poolID uint64) (*uint256.Int, error) {
	logger.Debug("withdrawing", "pool", poolID, "account", call.Caller)

	var amount *uint256.Int
	err := s.gate.Guard(func() error {
		if err := s.requireActive(); err != nil {
			return err
		}
		tick := s.clock.Tick()
		p, err := s.syncPool(poolID, tick)
		if err != nil {
			return err
		}
		if p.WithdrawPaused {
			return errors.WithMessagef(reverts.ErrWithdrawPaused, "pool %d", poolID)
		}
		if amount, err = s.withdrawals.Release(poolID, call.Caller, tick); err != nil {
			return err
		}
		if err := s.transferOut(p.Asset, call.Caller, amount); err != nil {
			return err
		}
		s.emit(events.Withdraw, poolID, call.Caller, amount, 0)
		return nil
	})
	if err != nil {
		return nil, s.done("Withdraw", err, "pool", poolID, "account", call.Caller)
	}
	return amount, s.done("Withdraw", nil, "pool", poolID, "account", call.Caller, "amount", amount)
}

// Claim pays the caller's banked and accrued reward in the pool.
func (s *Staker) Claim(call *xenv.Call, poolID uint64) (*uint256.Int, error) {
	logger.Debug("claiming", "pool", poolID, "account", call.Caller)

	var amount *uint256.Int
	err := s.gate.Guard(func() error {
		if err := s.requireActive(); err != nil {
			return err
		}
		p, err := s.syncPool(poolID, s.clock.Tick())
		if err != nil {
			return err
		}
		pos, err := s.positions.Get(poolID, call.Caller)
		if err != nil {
			return err
		}
		if err := pos.Settle(p.AccRewardPerShare); err != nil {
			return err
		}
		amount = pos.TakeBanked()
		if err := s.positions.Set(poolID, call.Caller, pos); err != nil {
			return err
		}
		rewardAsset, err := s.config.RewardAsset()
		if err != nil {
			return err
		}
		if err := s.transferOut(rewardAsset, call.Caller, amount); err != nil {
			return err
		}
		s.emit(events.Claim, poolID, call.Caller, amount, 0)
		return nil
	})
	if err != nil {
		return nil, s.done("Claim", err, "pool", poolID, "account", call.Caller)
	}
	return amount, s.done("Claim", nil, "pool", poolID, "account", call.Caller, "amount", amount)
}

// requireActive fails unless the ledger is initialized and not paused.
func (s *Staker) requireActive() error {
	if err := s.config.RequireInitialized(); err != nil {
		return err
	}
	return s.gate.RequireNotPaused()
}
