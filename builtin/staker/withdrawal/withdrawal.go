// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package withdrawal keeps the per account, per pool queues of unstaked principal
// waiting for their lock to expire.
package withdrawal

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/thor"
)

var slotQueues = slot.Pos("withdrawal-queues")

// Request is an amount of principal withdrawable from UnlockTick on.
type Request struct {
	Amount     *uint256.Int
	UnlockTick uint64
}

// Unlocked reports whether the request can be withdrawn at tick.
func (r *Request) Unlocked(tick uint64) bool {
	return r.UnlockTick <= tick
}

type queueKey struct {
	pool    uint64
	account thor.Address
}

func (k queueKey) Bytes() []byte {
	b := binary.BigEndian.AppendUint64(make([]byte, 0, 8+thor.AddressLength), k.pool)
	return append(b, k.account[:]...)
}

// Service stores queues in insertion order.
type Service struct {
	queues *slot.Mapping[queueKey, []*Request]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		queues: slot.NewMapping[queueKey, []*Request](sctx, slotQueues),
	}
}

// List returns the pending requests of account in pool, oldest first.
func (s *Service) List(pool uint64, account thor.Address) ([]*Request, error) {
	queue, err := s.queues.Get(queueKey{pool, account})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get withdrawal queue")
	}
	return queue, nil
}

// Push appends a request to the queue of account in pool.
func (s *Service) Push(pool uint64, account thor.Address, req *Request) error {
	queue, err := s.List(pool, account)
	if err != nil {
		return err
	}
	queue = append(queue, req)
	if err := s.queues.Set(queueKey{pool, account}, queue); err != nil {
		return errors.Wrap(err, "failed to set withdrawal queue")
	}
	return nil
}

// Split sums the queue into the amount still locked at tick and the amount
// already unlocked.
func (s *Service) Split(pool uint64, account thor.Address, tick uint64) (locked, unlocked *uint256.Int, err error) {
	queue, err := s.List(pool, account)
	if err != nil {
		return nil, nil, err
	}
	locked, unlocked = new(uint256.Int), new(uint256.Int)
	for _, req := range queue {
		if req.Unlocked(tick) {
			unlocked, err = fixedpoint.Add(unlocked, req.Amount)
		} else {
			locked, err = fixedpoint.Add(locked, req.Amount)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return locked, unlocked, nil
}

// Release removes every request unlocked at tick and returns their sum.
// Locked requests keep their order.
func (s *Service) Release(pool uint64, account thor.Address, tick uint64) (*uint256.Int, error) {
	queue, err := s.List(pool, account)
	if err != nil {
		return nil, err
	}
	var (
		released = new(uint256.Int)
		kept     = make([]*Request, 0, len(queue))
	)
	for _, req := range queue {
		if !req.Unlocked(tick) {
			kept = append(kept, req)
			continue
		}
		if released, err = fixedpoint.Add(released, req.Amount); err != nil {
			return nil, err
		}
	}
	if len(kept) == len(queue) {
		return released, nil
	}
	if len(kept) == 0 {
		s.queues.Delete(queueKey{pool, account})
		return released, nil
	}
	if err := s.queues.Set(queueKey{pool, account}, kept); err != nil {
		return nil, errors.Wrap(err, "failed to set withdrawal queue")
	}
	return released, nil
}
