// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package withdrawal

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

func M(a ...any) []any {
	return a
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	svc := New(slot.NewContext(thor.BytesToAddress([]byte("queue")), state.New(db)))
	alice := thor.BytesToAddress([]byte("alice"))

	for _, req := range []*Request{
		{uint256.NewInt(1), 10},
		{uint256.NewInt(2), 30},
		{uint256.NewInt(4), 20},
	} {
		require.NoError(t, svc.Push(0, alice, req))
	}
	require.NoError(t, svc.Push(1, alice, &Request{uint256.NewInt(8), 0}))

	tests := []struct {
		ret      []any
		expected []any
	}{
		{M(svc.Split(0, alice, 0)), M(uint256.NewInt(7), uint256.NewInt(0), nil)},
		{M(svc.Split(0, alice, 10)), M(uint256.NewInt(6), uint256.NewInt(1), nil)},
		{M(svc.Split(0, alice, 25)), M(uint256.NewInt(2), uint256.NewInt(5), nil)},
		{M(svc.Split(1, alice, 0)), M(uint256.NewInt(0), uint256.NewInt(8), nil)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}

	released, err := svc.Release(0, alice, 25)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(5), released)

	queue, err := svc.List(0, alice)
	require.NoError(t, err)
	assert.Equal(t, []*Request{{uint256.NewInt(2), 30}}, queue)

	released, err = svc.Release(0, alice, 25)
	require.NoError(t, err)
	assert.True(t, released.IsZero())

	released, err = svc.Release(0, alice, 30)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(2), released)

	queue, err = svc.List(0, alice)
	require.NoError(t, err)
	assert.Empty(t, queue)

	// other pools are untouched
	queue, err = svc.List(1, alice)
	require.NoError(t, err)
	assert.Len(t, queue, 1)
}
