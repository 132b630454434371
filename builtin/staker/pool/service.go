// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/thor"
)

var (
	slotPools      = slot.Pos("pools")
	slotPoolCount  = slot.Pos("pool-count")
	slotAssetIndex = slot.Pos("pool-asset-index")
)

type id uint64

func (i id) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

// Service is an append-only arena of pools addressed by their ordinal id.
// Pools are never removed or reordered.
type Service struct {
	pools  *slot.Mapping[id, *Pool]
	count  *slot.Raw[uint64]
	assets *slot.Mapping[thor.Address, uint64] // asset => id + 1
}

func NewService(sctx *slot.Context) *Service {
	return &Service{
		pools:  slot.NewMapping[id, *Pool](sctx, slotPools),
		count:  slot.NewRaw[uint64](sctx, slotPoolCount),
		assets: slot.NewMapping[thor.Address, uint64](sctx, slotAssetIndex),
	}
}

// Count returns the number of pools.
func (s *Service) Count() (uint64, error) {
	return s.count.Get()
}

// Get returns the pool with the given id, or a NotFound revert.
func (s *Service) Get(poolID uint64) (*Pool, error) {
	count, err := s.count.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool count")
	}
	if poolID >= count {
		return nil, errors.WithMessagef(reverts.ErrNotFound, "pool %d", poolID)
	}
	p, err := s.pools.Get(id(poolID))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get pool %d", poolID)
	}
	return p, nil
}

// Set stores an existing pool.
func (s *Service) Set(poolID uint64, p *Pool) error {
	if err := s.pools.Set(id(poolID), p); err != nil {
		return errors.Wrapf(err, "failed to set pool %d", poolID)
	}
	return nil
}

// IDOf returns the id of the pool backed by asset.
func (s *Service) IDOf(asset thor.Address) (uint64, bool, error) {
	idx, err := s.assets.Get(asset)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get asset index")
	}
	if idx == 0 {
		return 0, false, nil
	}
	return idx - 1, true, nil
}

// Add appends a pool and returns its id. An asset backs at most one pool.
func (s *Service) Add(p *Pool) (uint64, error) {
	_, exists, err := s.IDOf(p.Asset)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errors.WithMessagef(reverts.ErrDuplicateAsset, "asset %v", p.Asset)
	}
	count, err := s.count.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pool count")
	}
	if err := s.pools.Set(id(count), p); err != nil {
		return 0, errors.Wrapf(err, "failed to set pool %d", count)
	}
	if err := s.assets.Set(p.Asset, count+1); err != nil {
		return 0, errors.Wrap(err, "failed to set asset index")
	}
	if err := s.count.Set(count + 1); err != nil {
		return 0, errors.Wrap(err, "failed to set pool count")
	}
	return count, nil
}
