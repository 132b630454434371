// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the monotonic tick source read by the ledgers.
package clock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vechain/stakepool/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock returns the current tick. Ticks never decrease.
type Clock interface {
	Tick() uint64
}

// Manual is a clock advanced explicitly, used by tests and solo mode.
type Manual struct {
	tick atomic.Uint64
}

func NewManual(start uint64) *Manual {
	m := &Manual{}
	m.tick.Store(start)
	return m
}

func (m *Manual) Tick() uint64 {
	return m.tick.Load()
}

// Advance moves the clock n ticks forward and returns the new tick.
func (m *Manual) Advance(n uint64) uint64 {
	return m.tick.Add(n)
}

// Set moves the clock to tick, which must not be in the past.
func (m *Manual) Set(tick uint64) error {
	for {
		cur := m.tick.Load()
		if tick < cur {
			return fmt.Errorf("clock: tick %d is before current tick %d", tick, cur)
		}
		if m.tick.CompareAndSwap(cur, tick) {
			return nil
		}
	}
}

// Ticker advances one tick per interval while Run is active.
type Ticker struct {
	tick     atomic.Uint64
	interval time.Duration
}

func NewTicker(start uint64, interval time.Duration) *Ticker {
	t := &Ticker{interval: interval}
	t.tick.Store(start)
	return t
}

func (t *Ticker) Tick() uint64 {
	return t.tick.Load()
}

// Run advances the ticker until ctx is done. Every step is handed to apply,
// which must call it exactly once; apply lets the caller move the tick under
// the same lock as the ledger calls reading it. A failing apply stops Run.
func (t *Ticker) Run(ctx context.Context, apply func(step func()) error) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	logger.Info("clock started", "tick", t.Tick(), "interval", t.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("clock stopped", "tick", t.Tick())
			return nil
		case <-ticker.C:
			if err := apply(func() {
				n := t.tick.Add(1)
				logger.Trace("tick", "tick", n)
			}); err != nil {
				logger.Warn("clock stopped", "tick", t.Tick(), "err", err)
				return err
			}
		}
	}
}
