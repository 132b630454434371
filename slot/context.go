// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slot provides typed storage variables laid out in the slots of a ledger
// contract address.
package slot

import (
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

type Context struct {
	address thor.Address
	state   *state.State
}

func NewContext(address thor.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Pos returns the storage position of a named variable.
func Pos(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}
