// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/stackedmap"
	"github.com/vechain/stakepool/thor"
)

const defaultCacheSize = 4096

// StorageBucket is the kv bucket holding committed storage slots.
var StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, thor.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages contract storage.
type State struct {
	db    kv.Getter
	cache *lru.Cache // committed values
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object over the committed storage in db.
func New(db kv.Getter) *State {
	cache, _ := lru.New(defaultCacheSize)
	s := &State{
		db:    StorageBucket.NewGetter(db),
		cache: cache,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New[storageKey, rlp.RawValue](s.committed)
}

// committed implements stackedmap.MapGetter.
func (s *State) committed(key storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		metricStorageRead().AddWithLabel(1, map[string]string{"source": "cache"})
		return v.(rlp.RawValue), true, nil
	}
	metricStorageRead().AddWithLabel(1, map[string]string{"source": "db"})

	data, err := s.db.Get(key.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		data = nil
	}
	s.cache.Add(key, rlp.RawValue(data))
	return data, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Dirty returns whether there are uncommitted changes.
func (s *State) Dirty() (dirty bool) {
	s.sm.Journal(func(storageKey, rlp.RawValue) bool {
		dirty = true
		return false
	})
	return
}

// Commit writes all journaled changes into putter and starts a clean journal.
// Only the last value of each slot is written; empty values are deleted.
func (s *State) Commit(putter kv.Putter) (int, error) {
	var (
		order  []storageKey
		latest = make(map[storageKey]rlp.RawValue)
	)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		if _, ok := latest[key]; !ok {
			order = append(order, key)
		}
		latest[key] = value
		return true
	})

	bucket := StorageBucket.NewPutter(putter)
	for _, key := range order {
		var err error
		if v := latest[key]; len(v) == 0 {
			err = bucket.Delete(key.dbKey())
		} else {
			err = bucket.Put(key.dbKey(), v)
		}
		if err != nil {
			return 0, &Error{err}
		}
	}
	metricStorageWrite().Add(int64(len(order)))
	return len(order), nil
}

// Flushed drops the journal after its Commit batch was written, making the
// committed values visible through the cache.
func (s *State) Flushed() {
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		s.cache.Add(key, value)
		return true
	})
	s.reset()
}
