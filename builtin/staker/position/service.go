// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/thor"
)

var slotPositions = slot.Pos("positions")

// Key identifies the position of an account in a pool.
type Key struct {
	Pool    uint64
	Account thor.Address
}

func (k Key) Bytes() []byte {
	b := binary.BigEndian.AppendUint64(make([]byte, 0, 8+thor.AddressLength), k.Pool)
	return append(b, k.Account[:]...)
}

type Service struct {
	positions *slot.Mapping[Key, *Position]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		positions: slot.NewMapping[Key, *Position](sctx, slotPositions),
	}
}

// Get returns the position of account in pool. A position never written
// reads as all zeros.
func (s *Service) Get(pool uint64, account thor.Address) (*Position, error) {
	pos, err := s.positions.Get(Key{pool, account})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	pos.normalize()
	return pos, nil
}

// Exists reports whether account has ever deposited into pool.
func (s *Service) Exists(pool uint64, account thor.Address) (bool, error) {
	exists, _, err := s.positions.Lookup(Key{pool, account})
	if err != nil {
		return false, errors.Wrap(err, "failed to get position")
	}
	return exists, nil
}

func (s *Service) Set(pool uint64, account thor.Address, pos *Position) error {
	pos.normalize()
	if err := s.positions.Set(Key{pool, account}, pos); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}
