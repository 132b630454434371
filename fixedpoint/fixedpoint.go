// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the non-negative 256-bit arithmetic used for
// reward accounting. All results truncate toward zero and every operation that
// leaves the representable range fails with an ArithmeticOverflow revert.
package fixedpoint

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/reverts"
)

// Precision is the scale of reward accumulators.
var Precision = uint256.NewInt(1e18)

// Zero returns a fresh zero value.
func Zero() *uint256.Int { return new(uint256.Int) }

// Add returns a+b.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, errors.WithMessagef(reverts.ErrOverflow, "%v + %v", a, b)
	}
	return z, nil
}

// Sub returns a-b. A negative result is reported as overflow.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, errors.WithMessagef(reverts.ErrOverflow, "%v - %v", a, b)
	}
	return z, nil
}

// Mul returns a*b.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, errors.WithMessagef(reverts.ErrOverflow, "%v * %v", a, b)
	}
	return z, nil
}

// Div returns a/b. Dividing by zero is an error, never a silent zero.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, errors.WithMessagef(reverts.ErrOverflow, "%v / 0", a)
	}
	return new(uint256.Int).Div(a, b), nil
}

// MulDiv returns a*b/c. The product must fit in 256 bits.
func MulDiv(a, b, c *uint256.Int) (*uint256.Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Div(p, c)
}

// ScaledMul returns a*b/Precision.
func ScaledMul(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, b, Precision)
}

// ScaledDiv returns a*Precision/b.
func ScaledDiv(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, Precision, b)
}

// Accrued returns the reward a stake has accrued against an accumulator,
// before subtracting its reward debt.
func Accrued(staked, acc *uint256.Int) (*uint256.Int, error) {
	return ScaledMul(staked, acc)
}

// Pending returns staked*acc/Precision - debt + banked.
func Pending(staked, acc, debt, banked *uint256.Int) (*uint256.Int, error) {
	accrued, err := Accrued(staked, acc)
	if err != nil {
		return nil, err
	}
	unsettled, err := Sub(accrued, debt)
	if err != nil {
		return nil, err
	}
	return Add(unsettled, banked)
}

// Grow distributes reward over totalStaked and returns the new accumulator.
// The accumulator is left unchanged when nothing is staked.
func Grow(acc, reward, totalStaked *uint256.Int) (*uint256.Int, error) {
	if totalStaked.IsZero() || reward.IsZero() {
		return new(uint256.Int).Set(acc), nil
	}
	perShare, err := ScaledDiv(reward, totalStaked)
	if err != nil {
		return nil, err
	}
	return Add(acc, perShare)
}

// Emission returns elapsed*rate*weight/totalWeight, the reward emitted to one
// pool over elapsed ticks. A zero total weight emits nothing.
func Emission(elapsed uint64, rate *uint256.Int, weight, totalWeight uint64) (*uint256.Int, error) {
	if totalWeight == 0 || elapsed == 0 {
		return Zero(), nil
	}
	total, err := Mul(uint256.NewInt(elapsed), rate)
	if err != nil {
		return nil, err
	}
	return MulDiv(total, uint256.NewInt(weight), uint256.NewInt(totalWeight))
}
