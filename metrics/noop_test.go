// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	// the singleton starts as noop
	assert.True(t, NoOp())
	assert.Nil(t, HTTPHandler())

	assert.NotPanics(t, func() {
		LazyLoadCounter("noop_count")().Add(1)
		LazyLoadCounterVec("noop_count_vec", []string{"op"})().AddWithLabel(1, map[string]string{"op": "deposit"})
		LazyLoadGauge("noop_gauge")().Set(3)
		LazyLoadGaugeVec("noop_gauge_vec", []string{"pool"})().SetWithLabel(1, map[string]string{"pool": "0"})
		LazyLoadHistogramVec("noop_hist_vec", []string{"op"}, BucketHTTPReqs)().ObserveWithLabels(2, map[string]string{"op": "claim"})
	})
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	f := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 1, f())
	assert.Equal(t, 1, f())
	assert.Equal(t, 1, calls)
}
