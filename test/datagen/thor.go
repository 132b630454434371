// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/thor"
)

func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}

// RandAddresses returns n distinct random addresses.
func RandAddresses(n int) []thor.Address {
	seen := make(map[thor.Address]bool, n)
	addrs := make([]thor.Address, 0, n)
	for len(addrs) < n {
		addr := RandAddress()
		if seen[addr] || addr.IsNative() {
			continue
		}
		seen[addr] = true
		addrs = append(addrs, addr)
	}
	return addrs
}

var eventNames = []string{events.Deposit, events.Unstake, events.Withdraw, events.Claim}

// RandEvent returns an account event of ledger at tick with random pool,
// account and amount.
func RandEvent(ledger thor.Address, tick uint64, accounts []thor.Address) *events.Event {
	return &events.Event{
		Ledger:  ledger,
		Name:    eventNames[RandIntN(len(eventNames))],
		Tick:    tick,
		Pool:    RandUint64N(4),
		Account: accounts[RandIntN(len(accounts))],
		Amount:  RandAmount(1e18),
	}
}
