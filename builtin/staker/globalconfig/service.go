// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalconfig

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/thor"
)

var (
	slotInitialized   = slot.Pos("initialized")
	slotRewardAsset   = slot.Pos("reward-asset")
	slotRewardPerTick = slot.Pos("reward-per-tick")
	slotTotalWeight   = slot.Pos("total-weight")
)

// Service manages the contract-wide parameters shared by all pools.
type Service struct {
	initialized   *slot.Bool
	rewardAsset   *slot.Address
	rewardPerTick *slot.Uint256
	totalWeight   *slot.Raw[uint64]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		initialized:   slot.NewBool(sctx, slotInitialized),
		rewardAsset:   slot.NewAddress(sctx, slotRewardAsset),
		rewardPerTick: slot.NewUint256(sctx, slotRewardPerTick),
		totalWeight:   slot.NewRaw[uint64](sctx, slotTotalWeight),
	}
}

// Initialize stores the reward parameters once.
func (s *Service) Initialize(rewardAsset thor.Address, rewardPerTick *uint256.Int) error {
	initialized, err := s.initialized.Get()
	if err != nil {
		return err
	}
	if initialized {
		return reverts.ErrAlreadyInitialized
	}
	s.initialized.Set(true)
	s.rewardAsset.Set(rewardAsset)
	s.rewardPerTick.Set(rewardPerTick)
	return nil
}

func (s *Service) RequireInitialized() error {
	initialized, err := s.initialized.Get()
	if err != nil {
		return err
	}
	if !initialized {
		return reverts.ErrNotInitialized
	}
	return nil
}

func (s *Service) RewardAsset() (thor.Address, error) {
	return s.rewardAsset.Get()
}

func (s *Service) RewardPerTick() (*uint256.Int, error) {
	return s.rewardPerTick.Get()
}

func (s *Service) SetRewardPerTick(rate *uint256.Int) {
	s.rewardPerTick.Set(rate)
}

// TotalWeight returns the sum of all pool weights.
func (s *Service) TotalWeight() (uint64, error) {
	return s.totalWeight.Get()
}

// ReplaceWeight swaps the weight of one pool in the total, from -> to.
func (s *Service) ReplaceWeight(from, to uint64) error {
	total, err := s.totalWeight.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get total weight")
	}
	if total < from {
		return errors.WithMessagef(reverts.ErrOverflow, "total weight %d below pool weight %d", total, from)
	}
	total -= from
	if total+to < total {
		return errors.WithMessagef(reverts.ErrOverflow, "total weight %d + %d", total, to)
	}
	return s.totalWeight.Set(total + to)
}
