// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewardpool implements the single pool reward ledger. Unlike the
// multi-pool staker, withdrawing principal also pays out the pending reward
// and there is no withdrawal queue.
package rewardpool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker/position"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/gate"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/transfer"
	"github.com/vechain/stakepool/xenv"
)

var logger = log.WithContext("pkg", "rewardpool")

var (
	slotInitialized = slot.Pos("initialized")
	slotInfo        = slot.Pos("info")
)

// the only pool of the ledger in the position store
const poolID = 0

type Info struct {
	StakeAsset        thor.Address
	RewardAsset       thor.Address
	RewardPerTick     *uint256.Int
	TotalStaked       *uint256.Int
	AccRewardPerShare *uint256.Int
	LastUpdateTick    uint64
}

func (i *Info) normalize() {
	for _, v := range []**uint256.Int{&i.RewardPerTick, &i.TotalStaked, &i.AccRewardPerShare} {
		if *v == nil {
			*v = new(uint256.Int)
		}
	}
}

// Projected returns the accumulator after a sync at tick.
func (i *Info) Projected(tick uint64) (*uint256.Int, error) {
	if tick <= i.LastUpdateTick || i.TotalStaked.IsZero() {
		return new(uint256.Int).Set(i.AccRewardPerShare), nil
	}
	reward, err := fixedpoint.Mul(uint256.NewInt(tick-i.LastUpdateTick), i.RewardPerTick)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Grow(i.AccRewardPerShare, reward, i.TotalStaked)
}

// Sync brings the accumulator to tick. The update tick always moves.
func (i *Info) Sync(tick uint64) error {
	acc, err := i.Projected(tick)
	if err != nil {
		return err
	}
	i.AccRewardPerShare = acc
	if tick > i.LastUpdateTick {
		i.LastUpdateTick = tick
	}
	return nil
}

type RewardPool struct {
	address    thor.Address
	clock      clock.Clock
	transferer transfer.Transferer
	recorder   *events.Recorder

	gate        *gate.Gate
	initialized *slot.Bool
	info        *slot.Raw[*Info]
	positions   *position.Service
}

func New(
	addr thor.Address,
	st *state.State,
	clk clock.Clock,
	transferer transfer.Transferer,
	recorder *events.Recorder,
	authority gate.Authority,
) *RewardPool {
	sctx := slot.NewContext(addr, st)
	return &RewardPool{
		address:     addr,
		clock:       clk,
		transferer:  transferer,
		recorder:    recorder,
		gate:        gate.New(sctx, recorder, authority),
		initialized: slot.NewBool(sctx, slotInitialized),
		info:        slot.NewRaw[*Info](sctx, slotInfo),
		positions:   position.New(sctx),
	}
}

func (r *RewardPool) Address() thor.Address {
	return r.address
}

// Info returns the pool as last written.
func (r *RewardPool) Info() (*Info, error) {
	info, err := r.info.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool info")
	}
	info.normalize()
	return info, nil
}

func (r *RewardPool) UserInfo(account thor.Address) (*position.Position, error) {
	return r.positions.Get(poolID, account)
}

// PendingReward returns the reward account could claim at the current tick.
func (r *RewardPool) PendingReward(account thor.Address) (*uint256.Int, error) {
	info, err := r.Info()
	if err != nil {
		return nil, err
	}
	acc, err := info.Projected(r.clock.Tick())
	if err != nil {
		return nil, err
	}
	pos, err := r.positions.Get(poolID, account)
	if err != nil {
		return nil, err
	}
	return pos.Pending(acc)
}

func (r *RewardPool) Paused() (bool, error) {
	return r.gate.Paused()
}

func (r *RewardPool) Administrator() (thor.Address, error) {
	return r.gate.Administrator()
}

// Initialize sets the assets and the rate, and makes the caller administrator.
func (r *RewardPool) Initialize(call *xenv.Call, stakeAsset, rewardAsset thor.Address, rewardPerTick *uint256.Int) error {
	logger.Debug("initializing", "caller", call.Caller, "stakeAsset", stakeAsset, "rewardAsset", rewardAsset)

	err := r.gate.Guard(func() error {
		initialized, err := r.initialized.Get()
		if err != nil {
			return err
		}
		if initialized {
			return reverts.ErrAlreadyInitialized
		}
		r.initialized.Set(true)
		info := &Info{
			StakeAsset:     stakeAsset,
			RewardAsset:    rewardAsset,
			RewardPerTick:  new(uint256.Int),
			LastUpdateTick: r.clock.Tick(),
		}
		if rewardPerTick != nil {
			info.RewardPerTick.Set(rewardPerTick)
		}
		info.normalize()
		if err := r.info.Set(info); err != nil {
			return err
		}
		r.gate.SetAdministrator(call.Caller)
		r.emit(events.Initialized, call.Caller, rewardPerTick, 0)
		return nil
	})
	return done("Initialize", err, "caller", call.Caller)
}

// Deposit stakes amount. Native stake must be attached to the call in full.
func (r *RewardPool) Deposit(call *xenv.Call, amount *uint256.Int) error {
	logger.Debug("depositing", "account", call.Caller, "amount", amount)

	err := r.gate.Guard(func() error {
		if err := r.requireActive(); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return errors.WithMessage(reverts.ErrInvalidAmount, "deposit amount is zero")
		}
		info, err := r.sync()
		if err != nil {
			return err
		}
		if info.StakeAsset.IsNative() {
			if !call.AttachedValue().Eq(amount) {
				return errors.WithMessagef(reverts.ErrValueMismatch, "value %v, amount %v", call.AttachedValue(), amount)
			}
		} else if call.HasValue() {
			return errors.WithMessagef(reverts.ErrValueMismatch, "token deposit carries value %v", call.Value)
		}

		pos, err := r.positions.Get(poolID, call.Caller)
		if err != nil {
			return err
		}
		if err := pos.Settle(info.AccRewardPerShare); err != nil {
			return err
		}
		if pos.Staked, err = fixedpoint.Add(pos.Staked, amount); err != nil {
			return err
		}
		if err := pos.Reprice(info.AccRewardPerShare); err != nil {
			return err
		}
		if info.TotalStaked, err = fixedpoint.Add(info.TotalStaked, amount); err != nil {
			return err
		}
		if err := r.save(info, call.Caller, pos); err != nil {
			return err
		}
		if err := r.transferIn(info.StakeAsset, call.Caller, amount); err != nil {
			return err
		}
		r.emit(events.Deposit, call.Caller, amount, 0)
		return nil
	})
	return done("Deposit", err, "account", call.Caller)
}

// Withdraw returns amount of principal to the caller together with the whole
// pending reward, and returns the reward paid.
func (r *RewardPool) Withdraw(call *xenv.Call, amount *uint256.Int) (*uint256.Int, error) {
	logger.Debug("withdrawing", "account", call.Caller, "amount", amount)

	var reward *uint256.Int
	err := r.gate.Guard(func() error {
		if err := r.requireActive(); err != nil {
			return err
		}
		if amount == nil || amount.IsZero() {
			return errors.WithMessage(reverts.ErrInvalidAmount, "withdraw amount is zero")
		}
		info, err := r.sync()
		if err != nil {
			return err
		}
		pos, err := r.positions.Get(poolID, call.Caller)
		if err != nil {
			return err
		}
		if amount.Gt(pos.Staked) {
			return errors.WithMessagef(reverts.ErrInvalidAmount, "withdraw %v exceeds stake %v", amount, pos.Staked)
		}
		if err := pos.Settle(info.AccRewardPerShare); err != nil {
			return err
		}
		pos.Staked = new(uint256.Int).Sub(pos.Staked, amount)
		if err := pos.Reprice(info.AccRewardPerShare); err != nil {
			return err
		}
		reward = pos.TakeBanked()
		if info.TotalStaked, err = fixedpoint.Sub(info.TotalStaked, amount); err != nil {
			return err
		}
		if err := r.save(info, call.Caller, pos); err != nil {
			return err
		}
		if err := r.transferOut(info.StakeAsset, call.Caller, amount); err != nil {
			return err
		}
		if err := r.transferOut(info.RewardAsset, call.Caller, reward); err != nil {
			return err
		}
		r.emit(events.Withdraw, call.Caller, amount, 0)
		if !reward.IsZero() {
			r.emit(events.Claim, call.Caller, reward, 0)
		}
		return nil
	})
	if err != nil {
		return nil, done("Withdraw", err, "account", call.Caller)
	}
	return reward, done("Withdraw", nil, "account", call.Caller, "reward", reward)
}

// Claim pays the pending reward. A second claim in the same tick pays nothing.
func (r *RewardPool) Claim(call *xenv.Call) (*uint256.Int, error) {
	logger.Debug("claiming", "account", call.Caller)

	var reward *uint256.Int
	err := r.gate.Guard(func() error {
		if err := r.requireActive(); err != nil {
			return err
		}
		info, err := r.sync()
		if err != nil {
			return err
		}
		pos, err := r.positions.Get(poolID, call.Caller)
		if err != nil {
			return err
		}
		if err := pos.Settle(info.AccRewardPerShare); err != nil {
			return err
		}
		reward = pos.TakeBanked()
		if err := r.save(info, call.Caller, pos); err != nil {
			return err
		}
		if err := r.transferOut(info.RewardAsset, call.Caller, reward); err != nil {
			return err
		}
		r.emit(events.Claim, call.Caller, reward, 0)
		return nil
	})
	if err != nil {
		return nil, done("Claim", err, "account", call.Caller)
	}
	return reward, done("Claim", nil, "account", call.Caller, "reward", reward)
}

// SetRewardPerTick changes the rate. The tick of the call is settled at the old rate.
func (r *RewardPool) SetRewardPerTick(call *xenv.Call, rate *uint256.Int) error {
	logger.Debug("setting reward per tick", "rate", rate)

	err := r.gate.Guard(func() error {
		if err := r.requireAdministrator(call); err != nil {
			return err
		}
		info, err := r.sync()
		if err != nil {
			return err
		}
		info.RewardPerTick = new(uint256.Int)
		if rate != nil {
			info.RewardPerTick.Set(rate)
		}
		if err := r.info.Set(info); err != nil {
			return err
		}
		r.emit(events.SetRewardPerTick, call.Caller, rate, 0)
		return nil
	})
	return done("SetRewardPerTick", err, "rate", rate)
}

func (r *RewardPool) Pause(call *xenv.Call) error {
	return r.setPaused(call, true)
}

func (r *RewardPool) Unpause(call *xenv.Call) error {
	return r.setPaused(call, false)
}

func (r *RewardPool) setPaused(call *xenv.Call, paused bool) error {
	err := r.gate.Guard(func() error {
		if err := r.requireAdministrator(call); err != nil {
			return err
		}
		r.gate.SetPaused(paused)
		if paused {
			r.emit(events.Paused, call.Caller, nil, 0)
		} else {
			r.emit(events.Unpaused, call.Caller, nil, 0)
		}
		return nil
	})
	return done("SetPaused", err, "paused", paused)
}

// TransferAdministrator hands the administrator role over. The zero address renounces it.
func (r *RewardPool) TransferAdministrator(call *xenv.Call, to thor.Address) error {
	err := r.gate.Guard(func() error {
		if err := r.requireAdministrator(call); err != nil {
			return err
		}
		r.gate.SetAdministrator(to)
		r.emit(events.AdministratorChanged, to, nil, 0)
		return nil
	})
	return done("TransferAdministrator", err, "to", to)
}

func (r *RewardPool) requireInitialized() error {
	initialized, err := r.initialized.Get()
	if err != nil {
		return err
	}
	if !initialized {
		return reverts.ErrNotInitialized
	}
	return nil
}

func (r *RewardPool) requireActive() error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	return r.gate.RequireNotPaused()
}

func (r *RewardPool) requireAdministrator(call *xenv.Call) error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	return r.gate.RequireAdministrator(call.Caller)
}

// sync loads the pool, brings it to the current tick and stores it.
func (r *RewardPool) sync() (*Info, error) {
	info, err := r.Info()
	if err != nil {
		return nil, err
	}
	if err := info.Sync(r.clock.Tick()); err != nil {
		return nil, err
	}
	if err := r.info.Set(info); err != nil {
		return nil, errors.Wrap(err, "failed to set pool info")
	}
	return info, nil
}

func (r *RewardPool) save(info *Info, account thor.Address, pos *position.Position) error {
	if err := r.positions.Set(poolID, account, pos); err != nil {
		return err
	}
	if err := r.info.Set(info); err != nil {
		return errors.Wrap(err, "failed to set pool info")
	}
	return nil
}

func (r *RewardPool) transferIn(asset, from thor.Address, amount *uint256.Int) error {
	if err := r.transferer.TransferIn(asset, from, amount); err != nil {
		return reverts.Wrap(reverts.TransferFailed, err, "transfer in")
	}
	return nil
}

func (r *RewardPool) transferOut(asset, to thor.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := r.transferer.TransferOut(asset, to, amount); err != nil {
		return reverts.Wrap(reverts.TransferFailed, err, "transfer out")
	}
	return nil
}

func (r *RewardPool) emit(name string, account thor.Address, amount *uint256.Int, aux uint64) {
	ev := &events.Event{
		Ledger:  r.address,
		Name:    name,
		Tick:    r.clock.Tick(),
		Account: account,
		Aux:     aux,
	}
	if amount != nil {
		ev.Amount = new(uint256.Int).Set(amount)
	}
	r.recorder.Add(ev)
}

func done(op string, err error, ctx ...any) error {
	if err != nil {
		logger.Info(op+" failed", append(ctx, "error", err)...)
		metricOps().AddWithLabel(1, map[string]string{"op": op, "status": "failed"})
		return err
	}
	logger.Debug(op+" succeeded", ctx...)
	metricOps().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	return nil
}

var metricOps = metrics.LazyLoadCounterVec("rewardpool_ops_count", []string{"op", "status"})
