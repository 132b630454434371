// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xenv describes the environment a ledger operation is invoked in.
package xenv

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

// Call carries the identity of the invoker and the native value attached to
// the invocation. Authentication of Caller is done by the transport.
type Call struct {
	Caller thor.Address
	Value  *uint256.Int
}

// NewCall creates a call without attached value.
func NewCall(caller thor.Address) *Call {
	return &Call{Caller: caller}
}

// WithValue returns a copy of the call carrying value.
func (c *Call) WithValue(value *uint256.Int) *Call {
	return &Call{Caller: c.Caller, Value: value}
}

// AttachedValue returns the attached native value, zero when absent.
func (c *Call) AttachedValue() *uint256.Int {
	if c.Value == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(c.Value)
}

// HasValue reports whether a non-zero native value is attached.
func (c *Call) HasValue() bool {
	return c.Value != nil && !c.Value.IsZero()
}
