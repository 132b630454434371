// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevToken is the token staked in the second pool of the dev genesis.
var DevToken = thor.BytesToAddress([]byte("DevToken"))

// DevRewardToken is the asset rewards are paid in on the dev genesis.
var DevRewardToken = thor.BytesToAddress([]byte("DevRewardToken"))

func ether(n uint64) *Amount {
	return NewAmount(new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e18)))
}

// NewDevnet returns the genesis of solo mode. The first dev account
// administers both ledgers. Every dev account holds 10000 ether of the
// native asset and of the dev token.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	gen := &Genesis{
		Administrator: accs[0].Address,
		Staker: &StakerConfig{
			RewardAsset:   DevRewardToken,
			RewardPerTick: ether(10),
			Pools: []Pool{
				{Asset: thor.NativeAsset, Weight: 100, MinDeposit: NewAmount(uint256.NewInt(1e16)), LockDuration: 20},
				{Asset: DevToken, Weight: 200, MinDeposit: ether(1), LockDuration: 30},
			},
		},
		RewardPool: &RewardPoolConfig{
			StakeAsset:    thor.NativeAsset,
			RewardAsset:   DevRewardToken,
			RewardPerTick: ether(10),
		},
		Balances: []Balance{
			{Asset: DevRewardToken, Holder: builtin.Staker.Address, Amount: ether(100_000_000)},
			{Asset: DevRewardToken, Holder: builtin.RewardPool.Address, Amount: ether(100_000_000)},
		},
	}
	for _, acc := range accs {
		gen.Balances = append(gen.Balances,
			Balance{Asset: thor.NativeAsset, Holder: acc.Address, Amount: ether(10_000)},
			Balance{Asset: DevToken, Holder: acc.Address, Amount: ether(10_000)},
		)
	}
	return gen
}
