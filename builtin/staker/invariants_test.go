// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

type fuzzOp struct {
	Kind    uint8
	Account bool
	Pool    bool
	Amount  uint16
	Ticks   uint8
}

// TestStaker_Invariants runs random operations and checks after each one that
// pool totals match the positions and that accumulators never decrease.
func TestStaker_Invariants(t *testing.T) {
	env := newTestEnv(t, ether(7))
	withDefaultPools(env).Run(t)

	var ops []fuzzOp
	fuzz.NewWithSeed(42).NilChance(0).NumElements(500, 500).Fuzz(&ops)

	accounts := []thor.Address{alice, bob}
	lastAcc := []*uint256.Int{new(uint256.Int), new(uint256.Int)}
	unit := uint256.NewInt(1e16)

	for i, op := range ops {
		account := accounts[0]
		if op.Account {
			account = accounts[1]
		}
		poolID := nativePool
		if op.Pool {
			poolID = tokenPool
		}
		amount := new(uint256.Int).Mul(uint256.NewInt(uint64(op.Amount)%200+1), unit)
		call := xenv.NewCall(account)

		switch op.Kind % 5 {
		case 0:
			if poolID == nativePool {
				_ = env.staker.DepositNative(call.WithValue(amount), poolID)
			} else {
				_ = env.staker.DepositToken(call, poolID, amount)
			}
		case 1:
			_ = env.staker.Unstake(call, poolID, amount)
		case 2:
			_, _ = env.staker.Withdraw(call, poolID)
		case 3:
			_, _ = env.staker.Claim(call, poolID)
		case 4:
			env.clock.Advance(uint64(op.Ticks % 16))
		}

		for id := range lastAcc {
			p, err := env.staker.GetPool(uint64(id))
			require.NoError(t, err)

			sum := new(uint256.Int)
			for _, acc := range accounts {
				pos, err := env.staker.GetPosition(uint64(id), acc)
				require.NoError(t, err)
				sum.Add(sum, pos.Staked)

				pending, err := env.staker.PendingReward(uint64(id), acc)
				require.NoError(t, err)
				assert.NotNil(t, pending)
			}
			require.Equal(t, p.TotalStaked, sum, "op %d: total staked of pool %d", i, id)
			require.False(t, p.AccRewardPerShare.Lt(lastAcc[id]), "op %d: accumulator of pool %d decreased", i, id)
			lastAcc[id] = p.AccRewardPerShare
		}
	}
}
