// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial setup of the ledgers.
package genesis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

// Genesis is user customized genesis
type Genesis struct {
	Tick          uint64            `yaml:"tick"`
	Administrator thor.Address      `yaml:"administrator"`
	Staker        *StakerConfig     `yaml:"staker,omitempty"`
	RewardPool    *RewardPoolConfig `yaml:"rewardPool,omitempty"`
	Balances      []Balance         `yaml:"balances,omitempty"`
}

type StakerConfig struct {
	RewardAsset   thor.Address `yaml:"rewardAsset"`
	RewardPerTick *Amount      `yaml:"rewardPerTick"`
	Pools         []Pool       `yaml:"pools"`
}

type Pool struct {
	Asset          thor.Address `yaml:"asset"`
	Weight         uint64       `yaml:"weight"`
	MinDeposit     *Amount      `yaml:"minDeposit"`
	LockDuration   uint64       `yaml:"lockDuration"`
	WithdrawPaused bool         `yaml:"withdrawPaused"`
}

type RewardPoolConfig struct {
	StakeAsset    thor.Address `yaml:"stakeAsset"`
	RewardAsset   thor.Address `yaml:"rewardAsset"`
	RewardPerTick *Amount      `yaml:"rewardPerTick"`
}

// Balance credits an amount of asset to holder.
type Balance struct {
	Asset  thor.Address `yaml:"asset"`
	Holder thor.Address `yaml:"holder"`
	Amount *Amount      `yaml:"amount"`
}

// Load reads a genesis from a yaml file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

func (g *Genesis) Validate() error {
	if g.Administrator.IsZero() && (g.Staker != nil || g.RewardPool != nil) {
		return errors.New("administrator must be set")
	}
	if g.Staker != nil {
		seen := make(map[thor.Address]bool)
		for i, p := range g.Staker.Pools {
			if seen[p.Asset] {
				return fmt.Errorf("pools[%d]: duplicate asset %v", i, p.Asset)
			}
			seen[p.Asset] = true
		}
	}
	for i, b := range g.Balances {
		if b.Holder.IsZero() {
			return fmt.Errorf("balances[%d]: holder must be set", i)
		}
		if b.Amount.Int().IsZero() {
			return fmt.Errorf("balances[%d]: amount must be a non-zero integer", i)
		}
	}
	return nil
}

// Apply sets up the ledgers. It returns false without changes when the
// ledgers were set up before.
func (g *Genesis) Apply(l *runtime.Ledgers) (bool, error) {
	call := xenv.NewCall(g.Administrator)

	if g.Staker != nil {
		if err := l.Staker.Initialize(call, g.Staker.RewardAsset, g.Staker.RewardPerTick.Int()); err != nil {
			if errors.Is(err, reverts.ErrAlreadyInitialized) {
				return false, nil
			}
			return false, errors.Wrap(err, "initialize staker")
		}
		for i, p := range g.Staker.Pools {
			if _, err := l.Staker.AddPool(call, p.Asset, p.Weight, p.MinDeposit.Int(), p.LockDuration, p.WithdrawPaused); err != nil {
				return false, errors.Wrapf(err, "add pool %d", i)
			}
		}
	}
	if g.RewardPool != nil {
		err := l.RewardPool.Initialize(call, g.RewardPool.StakeAsset, g.RewardPool.RewardAsset, g.RewardPool.RewardPerTick.Int())
		if err != nil {
			if g.Staker == nil && errors.Is(err, reverts.ErrAlreadyInitialized) {
				return false, nil
			}
			return false, errors.Wrap(err, "initialize reward pool")
		}
	}
	for i, b := range g.Balances {
		if err := l.Bank.Mint(b.Asset, b.Holder, b.Amount.Int()); err != nil {
			return false, errors.Wrapf(err, "balances[%d]", i)
		}
	}
	return true, nil
}
