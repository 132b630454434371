// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	Unknown Kind = iota
	Unauthorized
	Paused
	InvalidAmount
	AssetMismatch
	DuplicateAsset
	WithdrawPaused
	ArithmeticOverflow
	TransferFailed
	NotFound
	ValueMismatch
	AlreadyInitialized
	NotInitialized
	Reentrant
)

var kindNames = [...]string{
	Unknown:            "Unknown",
	Unauthorized:       "Unauthorized",
	Paused:             "Paused",
	InvalidAmount:      "InvalidAmount",
	AssetMismatch:      "AssetMismatch",
	DuplicateAsset:     "DuplicateAsset",
	WithdrawPaused:     "WithdrawPaused",
	ArithmeticOverflow: "ArithmeticOverflow",
	TransferFailed:     "TransferFailed",
	NotFound:           "NotFound",
	ValueMismatch:      "ValueMismatch",
	AlreadyInitialized: "AlreadyInitialized",
	NotInitialized:     "NotInitialized",
	Reentrant:          "Reentrant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var (
	ErrUnauthorized       = New(Unauthorized, "caller is not the administrator")
	ErrPaused             = New(Paused, "ledger is paused")
	ErrInvalidAmount      = New(InvalidAmount, "invalid amount")
	ErrAssetMismatch      = New(AssetMismatch, "asset does not match pool")
	ErrDuplicateAsset     = New(DuplicateAsset, "asset already has a pool")
	ErrWithdrawPaused     = New(WithdrawPaused, "withdraw is paused for pool")
	ErrOverflow           = New(ArithmeticOverflow, "arithmetic overflow")
	ErrTransferFailed     = New(TransferFailed, "asset transfer failed")
	ErrNotFound           = New(NotFound, "not found")
	ErrValueMismatch      = New(ValueMismatch, "attached value mismatch")
	ErrAlreadyInitialized = New(AlreadyInitialized, "already initialized")
	ErrNotInitialized     = New(NotInitialized, "not initialized")
	ErrReentrant          = New(Reentrant, "reentrant call")
)

// ErrRevert is a business failure of a ledger operation.
// Every state change made by the failing operation is rolled back.
type ErrRevert struct {
	kind    Kind
	message string
	cause   error
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

// Newf formats the message of a new revert.
func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap turns cause into a revert of the given kind.
func Wrap(kind Kind, cause error, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
		cause:   cause,
	}
}

func (e *ErrRevert) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *ErrRevert) Kind() Kind { return e.kind }

func (e *ErrRevert) Unwrap() error { return e.cause }

// Is reports reverts of the same kind as equal, so the package sentinels
// match any revert carrying their kind.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert found in err's chain, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}
