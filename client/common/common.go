// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

import (
	"errors"
	"fmt"
)

var (
	ErrNot200Status  = errors.New("not 200 status code")
	ErrUnexpectedMsg = errors.New("unexpected message format")
)

// RevertError is returned when the node rejected an operation with a ledger
// revert.
type RevertError struct {
	Status  int
	Kind    string
	Message string
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("revert %s (status %d): %s", e.Kind, e.Status, e.Message)
}

// KindOf returns the revert kind carried by err, empty when err is not a
// RevertError.
func KindOf(err error) string {
	var re *RevertError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// EventWrapper is used to return errors from the websocket alongside the data
type EventWrapper[T any] struct {
	Data  T
	Error error
}
