// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"os"

	"github.com/elastic/gosigar"
	"github.com/prometheus/client_golang/prometheus"
)

// SystemCollector reports host and process memory gathered through gosigar.
// It implements prometheus.Collector.
type SystemCollector struct {
	pid int

	memTotalDesc     *prometheus.Desc
	memUsedDesc      *prometheus.Desc
	procResidentDesc *prometheus.Desc
}

// NewSystemCollector creates a collector for the current process.
func NewSystemCollector() *SystemCollector {
	return &SystemCollector{
		pid: os.Getpid(),

		memTotalDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "memory_total_bytes"),
			"Total physical memory of the host.",
			nil, nil,
		),
		memUsedDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "memory_used_bytes"),
			"Used physical memory of the host.",
			nil, nil,
		),
		procResidentDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "process", "resident_memory_bytes"),
			"Resident memory of the process.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *SystemCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memTotalDesc
	ch <- c.memUsedDesc
	ch <- c.procResidentDesc
}

// Collect implements prometheus.Collector.
// Values that can't be read on the current platform are skipped.
func (c *SystemCollector) Collect(ch chan<- prometheus.Metric) {
	var mem gosigar.Mem
	if err := mem.Get(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.memTotalDesc, prometheus.GaugeValue, float64(mem.Total))
		ch <- prometheus.MustNewConstMetric(c.memUsedDesc, prometheus.GaugeValue, float64(mem.ActualUsed))
	}
	var procMem gosigar.ProcMem
	if err := procMem.Get(c.pid); err == nil {
		ch <- prometheus.MustNewConstMetric(c.procResidentDesc, prometheus.GaugeValue, float64(procMem.Resident))
	}
}

// TotalMemory returns the physical memory of the host in bytes, or 0 if unknown.
func TotalMemory() uint64 {
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		return 0
	}
	return mem.Total
}
