// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/thor"
)

func M(a ...any) []any {
	return a
}

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateReadWrite(t *testing.T) {
	state, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("account1"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	assert.Equal(t, M(thor.Bytes32{}, nil), M(state.GetStorage(addr, storageKey)))

	state.SetStorage(addr, storageKey, thor.BytesToBytes32([]byte("value")))
	assert.Equal(t, M(thor.BytesToBytes32([]byte("value")), nil), M(state.GetStorage(addr, storageKey)))

	// zero value is stored as empty
	state.SetStorage(addr, storageKey, thor.Bytes32{})
	raw, err := state.GetRawStorage(addr, storageKey)
	assert.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	state, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("account1"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	values := []thor.Bytes32{
		thor.BytesToBytes32([]byte("v1")),
		thor.BytesToBytes32([]byte("v2")),
		thor.BytesToBytes32([]byte("v3")),
	}

	var chk []int
	for _, v := range values {
		chk = append(chk, state.NewCheckpoint())
		state.SetStorage(addr, storageKey, v)
	}

	for i := range chk {
		i = len(chk) - i - 1
		assert.Equal(t, M(values[i], nil), M(state.GetStorage(addr, storageKey)))
		state.RevertTo(chk[i])
	}
	assert.Equal(t, M(thor.Bytes32{}, nil), M(state.GetStorage(addr, storageKey)))
	assert.False(t, state.Dirty())

	// revert to an out-of-range checkpoint keeps a usable journal
	state.RevertTo(0)
	state.SetStorage(addr, storageKey, values[0])
	assert.True(t, state.Dirty())
}

func TestStateCommit(t *testing.T) {
	state, db := newTestState(t)

	addr := thor.BytesToAddress([]byte("account1"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	state.SetStorage(addr, k1, thor.BytesToBytes32([]byte("a")))
	state.SetStorage(addr, k1, thor.BytesToBytes32([]byte("b")))
	state.SetStorage(addr, k2, thor.BytesToBytes32([]byte("c")))

	batch := db.NewBatch()
	n, err := state.Commit(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, batch.Write())
	state.Flushed()
	assert.False(t, state.Dirty())

	// a fresh state reads committed values from db
	reloaded := New(db)
	assert.Equal(t, M(thor.BytesToBytes32([]byte("b")), nil), M(reloaded.GetStorage(addr, k1)))
	assert.Equal(t, M(thor.BytesToBytes32([]byte("c")), nil), M(reloaded.GetStorage(addr, k2)))

	// clearing a slot deletes it
	state.SetStorage(addr, k2, thor.Bytes32{})
	batch = db.NewBatch()
	_, err = state.Commit(batch)
	require.NoError(t, err)
	require.NoError(t, batch.Write())
	state.Flushed()

	has, err := StorageBucket.NewGetter(db).Has(storageKey{addr, k2}.dbKey())
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, M(thor.Bytes32{}, nil), M(state.GetStorage(addr, k2)))
}

func TestStateEncodeDecode(t *testing.T) {
	state, _ := newTestState(t)

	type record struct {
		A uint64
		B string
	}
	addr := thor.BytesToAddress([]byte("account1"))
	key := thor.BytesToBytes32([]byte("record"))

	require.NoError(t, state.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&record{1, "x"})
	}))

	var got record
	require.NoError(t, state.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, record{1, "x"}, got)

	// rlp list values are reported as their hash
	h, err := state.GetStorage(addr, key)
	require.NoError(t, err)
	assert.False(t, h.IsZero())
}
