// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transfer moves assets between accounts and ledger custody.
package transfer

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/fixedpoint"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var logger = log.WithContext("pkg", "transfer")

// BankAddress is the storage address of the built-in bank.
var BankAddress = thor.BytesToAddress([]byte("Bank"))

// ErrInsufficientBalance is returned when the source holds less than the amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Transferer moves an amount of asset between an account and the ledger.
type Transferer interface {
	TransferIn(asset, from thor.Address, amount *uint256.Int) error
	TransferOut(asset, to thor.Address, amount *uint256.Int) error
}

type balanceKey struct {
	asset  thor.Address
	holder thor.Address
}

func (k balanceKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*thor.AddressLength), k.asset[:]...), k.holder[:]...)
}

// Bank keeps asset balances in state, so custody moves are reverted together
// with the ledger operation that made them.
type Bank struct {
	balances *slot.Mapping[balanceKey, *uint256.Int]
}

func NewBank(st *state.State) *Bank {
	sctx := slot.NewContext(BankAddress, st)
	return &Bank{
		balances: slot.NewMapping[balanceKey, *uint256.Int](sctx, slot.Pos("balances")),
	}
}

func (b *Bank) BalanceOf(asset, holder thor.Address) (*uint256.Int, error) {
	return b.balances.Get(balanceKey{asset, holder})
}

// Mint credits amount to holder out of thin air.
func (b *Bank) Mint(asset, holder thor.Address, amount *uint256.Int) error {
	bal, err := b.BalanceOf(asset, holder)
	if err != nil {
		return err
	}
	sum, err := fixedpoint.Add(bal, amount)
	if err != nil {
		return err
	}
	return b.balances.Set(balanceKey{asset, holder}, sum)
}

// Move transfers amount from one holder to another.
func (b *Bank) Move(asset, from, to thor.Address, amount *uint256.Int) error {
	if amount.IsZero() || from == to {
		return nil
	}
	fromBal, err := b.BalanceOf(asset, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return errors.WithMessagef(ErrInsufficientBalance, "%v holds %v of %v, needs %v", from, fromBal, asset, amount)
	}
	toBal, err := b.BalanceOf(asset, to)
	if err != nil {
		return err
	}
	toBal, err = fixedpoint.Add(toBal, amount)
	if err != nil {
		return err
	}
	if err := b.balances.Set(balanceKey{asset, from}, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return b.balances.Set(balanceKey{asset, to}, toBal)
}

// Custody returns a Transferer moving assets in and out of the custody account.
func (b *Bank) Custody(custody thor.Address) Transferer {
	return &custodian{bank: b, custody: custody}
}

type custodian struct {
	bank    *Bank
	custody thor.Address
}

func (c *custodian) TransferIn(asset, from thor.Address, amount *uint256.Int) error {
	logger.Trace("transfer in", "asset", asset, "from", from, "amount", amount)
	return c.bank.Move(asset, from, c.custody, amount)
}

func (c *custodian) TransferOut(asset, to thor.Address, amount *uint256.Int) error {
	logger.Trace("transfer out", "asset", asset, "to", to, "amount", amount)
	return c.bank.Move(asset, c.custody, to, amount)
}
