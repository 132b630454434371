// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/vechain/stakepool/metrics"

var (
	metricOps       = metrics.LazyLoadCounterVec("staker_ops_count", []string{"op", "status", "kind"})
	metricPoolSyncs = metrics.LazyLoadCounterVec("staker_pool_sync_count", []string{"ledger"})
)
