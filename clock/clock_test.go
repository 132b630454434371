// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(10)
	assert.Equal(t, uint64(10), c.Tick())

	assert.Equal(t, uint64(15), c.Advance(5))
	assert.NoError(t, c.Set(15))
	assert.NoError(t, c.Set(20))
	assert.Error(t, c.Set(19))
	assert.Equal(t, uint64(20), c.Tick())
}

func TestTicker(t *testing.T) {
	c := NewTicker(3, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu    sync.Mutex
		steps int
	)
	apply := func(step func()) error {
		mu.Lock()
		defer mu.Unlock()
		step()
		steps++
		return nil
	}

	done := make(chan error)
	go func() { done <- c.Run(ctx, apply) }()

	assert.Eventually(t, func() bool { return c.Tick() >= 6 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)

	stopped := c.Tick()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, stopped, c.Tick())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int(stopped-3), steps)
}

func TestTickerStopsOnApplyError(t *testing.T) {
	c := NewTicker(0, time.Millisecond)
	boom := errors.New("boom")

	err := c.Run(context.Background(), func(func()) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), c.Tick())
}
