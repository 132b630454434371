// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker/globalconfig"
	"github.com/vechain/stakepool/builtin/staker/pool"
	"github.com/vechain/stakepool/builtin/staker/position"
	"github.com/vechain/stakepool/builtin/staker/withdrawal"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/gate"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/transfer"
	"github.com/vechain/stakepool/xenv"
)

var logger = log.WithContext("pkg", "staker")

// Staker implements the multi-pool reward ledger. Pools share one reward rate,
// which is split between them by weight.
type Staker struct {
	address    thor.Address
	clock      clock.Clock
	transferer transfer.Transferer
	recorder   *events.Recorder

	gate        *gate.Gate
	config      *globalconfig.Service
	pools       *pool.Service
	positions   *position.Service
	withdrawals *withdrawal.Service
}

// New create a new instance.
func New(
	addr thor.Address,
	st *state.State,
	clk clock.Clock,
	transferer transfer.Transferer,
	recorder *events.Recorder,
	authority gate.Authority,
) *Staker {
	sctx := slot.NewContext(addr, st)

	return &Staker{
		address:     addr,
		clock:       clk,
		transferer:  transferer,
		recorder:    recorder,
		gate:        gate.New(sctx, recorder, authority),
		config:      globalconfig.New(sctx),
		pools:       pool.NewService(sctx),
		positions:   position.New(sctx),
		withdrawals: withdrawal.New(sctx),
	}
}

func (s *Staker) Address() thor.Address {
	return s.address
}

//
// Getters - no state change
//

// RewardPerTick returns the reward emitted per tick across all pools.
func (s *Staker) RewardPerTick() (*uint256.Int, error) {
	return s.config.RewardPerTick()
}

// RewardAsset returns the asset rewards are paid in.
func (s *Staker) RewardAsset() (thor.Address, error) {
	return s.config.RewardAsset()
}

// TotalWeight returns the sum of the weights of all pools.
func (s *Staker) TotalWeight() (uint64, error) {
	return s.config.TotalWeight()
}

func (s *Staker) Paused() (bool, error) {
	return s.gate.Paused()
}

func (s *Staker) Administrator() (thor.Address, error) {
	return s.gate.Administrator()
}

func (s *Staker) PoolLength() (uint64, error) {
	return s.pools.Count()
}

// GetPool returns a snapshot of the pool as last written. Use PendingReward
// for a projection at the current tick.
func (s *Staker) GetPool(poolID uint64) (*pool.Pool, error) {
	return s.pools.Get(poolID)
}

// PoolOf returns the id of the pool staking asset.
func (s *Staker) PoolOf(asset thor.Address) (uint64, bool, error) {
	return s.pools.IDOf(asset)
}

func (s *Staker) GetPosition(poolID uint64, account thor.Address) (*position.Position, error) {
	if _, err := s.pools.Get(poolID); err != nil {
		return nil, err
	}
	return s.positions.Get(poolID, account)
}

// Requests returns the withdrawal queue of account in the pool, oldest first.
func (s *Staker) Requests(poolID uint64, account thor.Address) ([]*withdrawal.Request, error) {
	if _, err := s.pools.Get(poolID); err != nil {
		return nil, err
	}
	return s.withdrawals.List(poolID, account)
}

// PendingReward returns the reward account could claim from the pool at the
// current tick.
func (s *Staker) PendingReward(poolID uint64, account thor.Address) (*uint256.Int, error) {
	p, err := s.pools.Get(poolID)
	if err != nil {
		return nil, err
	}
	rate, totalWeight, err := s.emissionParams()
	if err != nil {
		return nil, err
	}
	acc, err := p.Projected(s.clock.Tick(), rate, totalWeight)
	if err != nil {
		return nil, err
	}
	pos, err := s.positions.Get(poolID, account)
	if err != nil {
		return nil, err
	}
	return pos.Pending(acc)
}

// WithdrawAmount splits the withdrawal queue of account into the amount still
// locked and the amount withdrawable now.
func (s *Staker) WithdrawAmount(poolID uint64, account thor.Address) (locked, unlocked *uint256.Int, err error) {
	if _, err := s.pools.Get(poolID); err != nil {
		return nil, nil, err
	}
	return s.withdrawals.Split(poolID, account, s.clock.Tick())
}

//
// Setters - state change
//

// Initialize sets the reward parameters and makes the caller administrator.
func (s *Staker) Initialize(call *xenv.Call, rewardAsset thor.Address, rewardPerTick *uint256.Int) error {
	logger.Debug("initializing", "caller", call.Caller, "rewardAsset", rewardAsset, "rewardPerTick", rewardPerTick)

	err := s.gate.Guard(func() error {
		if err := s.config.Initialize(rewardAsset, rewardPerTick); err != nil {
			return err
		}
		s.gate.SetAdministrator(call.Caller)
		s.emit(events.Initialized, 0, call.Caller, rewardPerTick, 0)
		return nil
	})
	return s.done("Initialize", err, "caller", call.Caller)
}

// AddPool appends a pool for asset and returns its id. Every existing pool is
// synced before the total weight changes.
func (s *Staker) AddPool(
	call *xenv.Call,
	asset thor.Address,
	weight uint64,
	minDeposit *uint256.Int,
	lockDuration uint64,
	withdrawPaused bool,
) (uint64, error) {
	logger.Debug("adding pool", "asset", asset, "weight", weight, "minDeposit", minDeposit, "lockDuration", lockDuration)

	var poolID uint64
	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		if _, exists, err := s.pools.IDOf(asset); err != nil {
			return err
		} else if exists {
			return errors.WithMessagef(reverts.ErrDuplicateAsset, "asset %v", asset)
		}
		tick := s.clock.Tick()
		if err := s.massUpdate(tick); err != nil {
			return err
		}
		var err error
		if poolID, err = s.pools.Add(pool.New(asset, weight, minDeposit, lockDuration, withdrawPaused, tick)); err != nil {
			return err
		}
		if err := s.config.ReplaceWeight(0, weight); err != nil {
			return err
		}
		s.emit(events.AddPool, poolID, asset, minDeposit, weight)
		return nil
	})
	return poolID, s.done("AddPool", err, "asset", asset, "pool", poolID)
}

// SetPoolWeight changes the weight of a pool. All pools are synced first so
// ticks before the change are distributed with the old weights.
func (s *Staker) SetPoolWeight(call *xenv.Call, poolID uint64, weight uint64) error {
	logger.Debug("setting pool weight", "pool", poolID, "weight", weight)

	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		if _, err := s.pools.Get(poolID); err != nil {
			return err
		}
		if err := s.massUpdate(s.clock.Tick()); err != nil {
			return err
		}
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		if err := s.config.ReplaceWeight(p.Weight, weight); err != nil {
			return err
		}
		p.Weight = weight
		if err := s.pools.Set(poolID, p); err != nil {
			return err
		}
		s.emit(events.SetPoolWeight, poolID, call.Caller, nil, weight)
		return nil
	})
	return s.done("SetPoolWeight", err, "pool", poolID)
}

// SetRewardPerTick changes the emission rate. The tick of the call is still
// settled at the old rate.
func (s *Staker) SetRewardPerTick(call *xenv.Call, rate *uint256.Int) error {
	logger.Debug("setting reward per tick", "rate", rate)

	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		if err := s.massUpdate(s.clock.Tick()); err != nil {
			return err
		}
		s.config.SetRewardPerTick(rate)
		s.emit(events.SetRewardPerTick, 0, call.Caller, rate, 0)
		return nil
	})
	return s.done("SetRewardPerTick", err, "rate", rate)
}

// SetPoolParams changes the deposit minimum and the lock duration of a pool.
// Requests already queued keep their unlock tick.
func (s *Staker) SetPoolParams(call *xenv.Call, poolID uint64, minDeposit *uint256.Int, lockDuration uint64) error {
	logger.Debug("setting pool params", "pool", poolID, "minDeposit", minDeposit, "lockDuration", lockDuration)

	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		p.MinDeposit = new(uint256.Int)
		if minDeposit != nil {
			p.MinDeposit.Set(minDeposit)
		}
		p.LockDuration = lockDuration
		if err := s.pools.Set(poolID, p); err != nil {
			return err
		}
		s.emit(events.SetPoolParams, poolID, call.Caller, minDeposit, lockDuration)
		return nil
	})
	return s.done("SetPoolParams", err, "pool", poolID)
}

// SetWithdrawPaused toggles withdrawals of a single pool.
func (s *Staker) SetWithdrawPaused(call *xenv.Call, poolID uint64, paused bool) error {
	logger.Debug("setting withdraw paused", "pool", poolID, "paused", paused)

	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		p, err := s.pools.Get(poolID)
		if err != nil {
			return err
		}
		p.WithdrawPaused = paused
		if err := s.pools.Set(poolID, p); err != nil {
			return err
		}
		var aux uint64
		if paused {
			aux = 1
		}
		s.emit(events.SetWithdrawPaused, poolID, call.Caller, nil, aux)
		return nil
	})
	return s.done("SetWithdrawPaused", err, "pool", poolID)
}

// Pause stops deposit, unstake, withdraw and claim on every pool.
func (s *Staker) Pause(call *xenv.Call) error {
	return s.setPaused(call, true)
}

func (s *Staker) Unpause(call *xenv.Call) error {
	return s.setPaused(call, false)
}

func (s *Staker) setPaused(call *xenv.Call, paused bool) error {
	logger.Debug("setting paused", "paused", paused)

	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		s.gate.SetPaused(paused)
		name := events.Unpaused
		if paused {
			name = events.Paused
		}
		s.emit(name, 0, call.Caller, nil, 0)
		return nil
	})
	return s.done("SetPaused", err, "paused", paused)
}

// TransferAdministrator hands the administrator role to another account.
// Transferring to the zero address renounces it.
func (s *Staker) TransferAdministrator(call *xenv.Call, to thor.Address) error {
	logger.Debug("transferring administrator", "to", to)

	err := s.gate.Guard(func() error {
		if err := s.requireAdministrator(call); err != nil {
			return err
		}
		s.gate.SetAdministrator(to)
		s.emit(events.AdministratorChanged, 0, to, nil, 0)
		return nil
	})
	return s.done("TransferAdministrator", err, "to", to)
}

// UpdatePool syncs the accumulator of one pool to the current tick.
func (s *Staker) UpdatePool(poolID uint64) error {
	err := s.gate.Guard(func() error {
		if err := s.config.RequireInitialized(); err != nil {
			return err
		}
		_, err := s.syncPool(poolID, s.clock.Tick())
		return err
	})
	return s.done("UpdatePool", err, "pool", poolID)
}

// MassUpdatePools syncs every pool to the current tick.
func (s *Staker) MassUpdatePools() error {
	err := s.gate.Guard(func() error {
		if err := s.config.RequireInitialized(); err != nil {
			return err
		}
		return s.massUpdate(s.clock.Tick())
	})
	return s.done("MassUpdatePools", err)
}

//
// Internal
//

func (s *Staker) requireAdministrator(call *xenv.Call) error {
	if err := s.config.RequireInitialized(); err != nil {
		return err
	}
	return s.gate.RequireAdministrator(call.Caller)
}

func (s *Staker) emissionParams() (*uint256.Int, uint64, error) {
	rate, err := s.config.RewardPerTick()
	if err != nil {
		return nil, 0, err
	}
	totalWeight, err := s.config.TotalWeight()
	if err != nil {
		return nil, 0, err
	}
	return rate, totalWeight, nil
}

// syncPool distributes the pool's share of the emission up to tick and stores it.
func (s *Staker) syncPool(poolID uint64, tick uint64) (*pool.Pool, error) {
	p, err := s.pools.Get(poolID)
	if err != nil {
		return nil, err
	}
	if tick <= p.LastUpdateTick {
		return p, nil
	}
	rate, totalWeight, err := s.emissionParams()
	if err != nil {
		return nil, err
	}
	if err := p.Sync(tick, rate, totalWeight); err != nil {
		return nil, err
	}
	if err := s.pools.Set(poolID, p); err != nil {
		return nil, err
	}
	s.emit(events.UpdatePool, poolID, thor.Address{}, p.AccRewardPerShare, p.LastUpdateTick)
	metricPoolSyncs().AddWithLabel(1, map[string]string{"ledger": "staker"})
	return p, nil
}

func (s *Staker) massUpdate(tick uint64) error {
	count, err := s.pools.Count()
	if err != nil {
		return err
	}
	for id := uint64(0); id < count; id++ {
		if _, err := s.syncPool(id, tick); err != nil {
			return err
		}
	}
	return nil
}

func (s *Staker) transferIn(asset, from thor.Address, amount *uint256.Int) error {
	if err := s.transferer.TransferIn(asset, from, amount); err != nil {
		return reverts.Wrap(reverts.TransferFailed, err, "transfer in")
	}
	return nil
}

func (s *Staker) transferOut(asset, to thor.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := s.transferer.TransferOut(asset, to, amount); err != nil {
		return reverts.Wrap(reverts.TransferFailed, err, "transfer out")
	}
	return nil
}

func (s *Staker) emit(name string, poolID uint64, account thor.Address, amount *uint256.Int, aux uint64) {
	ev := &events.Event{
		Ledger:  s.address,
		Name:    name,
		Tick:    s.clock.Tick(),
		Pool:    poolID,
		Account: account,
		Aux:     aux,
	}
	if amount != nil {
		ev.Amount = new(uint256.Int).Set(amount)
	}
	s.recorder.Add(ev)
}

// done logs and counts the outcome of an operation.
func (s *Staker) done(op string, err error, ctx ...any) error {
	if err != nil {
		logger.Info(op+" failed", append(ctx, "error", err)...)
		metricOps().AddWithLabel(1, map[string]string{"op": op, "status": "failed", "kind": reverts.KindOf(err).String()})
		return err
	}
	logger.Debug(op+" succeeded", ctx...)
	metricOps().AddWithLabel(1, map[string]string{"op": op, "status": "ok", "kind": ""})
	return nil
}
