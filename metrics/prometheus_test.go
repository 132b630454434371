// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestPromMetrics(t *testing.T) {
	noop := metrics
	t.Cleanup(func() { metrics = noop })
	InitializePrometheusMetrics()
	require.NotNil(t, HTTPHandler())
	require.False(t, NoOp())

	count1 := LazyLoadCounter("count1")()
	countVec := LazyLoadCounterVec("count_vec1", []string{"op"})()
	gauge1 := LazyLoadGauge("gauge1")()
	gaugeVec := LazyLoadGaugeVec("gauge_vec1", []string{"pool"})()
	hist := LazyLoadHistogramVec("hist1", []string{"op"}, []int64{0, 2, 5, 10})()

	count1.Add(1)
	LazyLoadCounter("count1")().Add(2)
	for i := range 10 {
		countVec.AddWithLabel(1, map[string]string{"op": []string{"deposit", "claim"}[i%2]})
		hist.ObserveWithLabels(int64(i), map[string]string{"op": "sync"})
	}
	gauge1.Add(5)
	gauge1.Set(7)
	gaugeVec.SetWithLabel(42, map[string]string{"pool": "0"})
	gaugeVec.AddWithLabel(1, map[string]string{"pool": "0"})

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	families := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		families[mf.GetName()] = mf
	}

	require.Equal(t, float64(3), families["stakepool_count1"].Metric[0].GetCounter().GetValue())
	require.Len(t, families["stakepool_count_vec1"].Metric, 2)
	require.Equal(t, float64(7), families["stakepool_gauge1"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(43), families["stakepool_gauge_vec1"].Metric[0].GetGauge().GetValue())
	require.Equal(t, uint64(10), families["stakepool_hist1"].Metric[0].GetHistogram().GetSampleCount())
	require.Equal(t, float64(45), families["stakepool_hist1"].Metric[0].GetHistogram().GetSampleSum())
}
