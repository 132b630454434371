// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

func newTestBank(t *testing.T) (*Bank, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	return NewBank(st), st
}

func balance(t *testing.T, b *Bank, asset, holder thor.Address) uint64 {
	bal, err := b.BalanceOf(asset, holder)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestCustody(t *testing.T) {
	bank, _ := newTestBank(t)
	token := thor.BytesToAddress([]byte("token"))
	alice := thor.BytesToAddress([]byte("alice"))
	ledger := thor.BytesToAddress([]byte("ledger"))

	require.NoError(t, bank.Mint(token, alice, uint256.NewInt(100)))
	custody := bank.Custody(ledger)

	require.NoError(t, custody.TransferIn(token, alice, uint256.NewInt(60)))
	assert.Equal(t, uint64(40), balance(t, bank, token, alice))
	assert.Equal(t, uint64(60), balance(t, bank, token, ledger))

	require.NoError(t, custody.TransferOut(token, alice, uint256.NewInt(10)))
	assert.Equal(t, uint64(50), balance(t, bank, token, alice))
	assert.Equal(t, uint64(50), balance(t, bank, token, ledger))

	// balances are per asset
	assert.Equal(t, uint64(0), balance(t, bank, thor.NativeAsset, alice))
}

func TestInsufficientBalance(t *testing.T) {
	bank, _ := newTestBank(t)
	alice := thor.BytesToAddress([]byte("alice"))
	ledger := thor.BytesToAddress([]byte("ledger"))

	require.NoError(t, bank.Mint(thor.NativeAsset, alice, uint256.NewInt(5)))
	err := bank.Custody(ledger).TransferIn(thor.NativeAsset, alice, uint256.NewInt(6))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, uint64(5), balance(t, bank, thor.NativeAsset, alice))

	// zero amounts never fail
	assert.NoError(t, bank.Custody(ledger).TransferOut(thor.NativeAsset, alice, uint256.NewInt(0)))
}

func TestBankReverts(t *testing.T) {
	bank, st := newTestBank(t)
	alice := thor.BytesToAddress([]byte("alice"))

	cp := st.NewCheckpoint()
	require.NoError(t, bank.Mint(thor.NativeAsset, alice, uint256.NewInt(5)))
	st.RevertTo(cp)
	assert.Equal(t, uint64(0), balance(t, bank, thor.NativeAsset, alice))
}
