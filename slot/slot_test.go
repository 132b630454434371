// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

type record struct {
	Amount *uint256.Int
	Tick   uint64
	Owner  thor.Address
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Address, *record](ctx, Pos("records"))
	key := thor.BytesToAddress([]byte("alice"))

	exists, got, err := m.Lookup(key)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotNil(t, got, "pointer values are allocated")

	want := &record{Amount: uint256.NewInt(100), Tick: 7, Owner: key}
	require.NoError(t, m.Set(key, want))

	exists, got, err = m.Lookup(key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, want, got)

	// other keys and other mappings do not collide
	other := NewMapping[thor.Address, *record](ctx, Pos("others"))
	exists, _, err = other.Lookup(key)
	require.NoError(t, err)
	assert.False(t, exists)

	m.Delete(key)
	exists, _, err = m.Lookup(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	counter := NewRaw[uint64](ctx, Pos("count"))

	v, err := counter.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, counter.Set(42))
	v, err = counter.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	total := NewUint256(ctx, Pos("total"))

	require.NoError(t, total.Add(uint256.NewInt(10)))
	require.NoError(t, total.Add(uint256.NewInt(5)))
	require.NoError(t, total.Sub(uint256.NewInt(3)))

	v, err := total.Get()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(12), v)

	err = total.Sub(uint256.NewInt(13))
	assert.True(t, errors.Is(err, reverts.ErrOverflow))

	v, err = total.Get()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(12), v, "failed sub leaves value untouched")
}

func TestAddressAndBool(t *testing.T) {
	ctx := newTestContext(t)
	admin := NewAddress(ctx, Pos("admin"))
	paused := NewBool(ctx, Pos("paused"))

	addr := thor.BytesToAddress([]byte("admin"))
	admin.Set(addr)
	got, err := admin.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	p, err := paused.Get()
	require.NoError(t, err)
	assert.False(t, p)

	paused.Set(true)
	p, err = paused.Get()
	require.NoError(t, err)
	assert.True(t, p)
}
