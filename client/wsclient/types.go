// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import "github.com/vechain/stakepool/client/common"

// Subscription is used to handle the active subscription
type Subscription[T any] struct {
	EventChan   <-chan common.EventWrapper[T]
	Unsubscribe func() error
}
