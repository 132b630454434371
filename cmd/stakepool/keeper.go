// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/runtime"
)

var (
	keeperLogger      = log.WithContext("pkg", "keeper")
	metricKeeperSyncs = metrics.LazyLoadCounterVec("keeper_sync_count", []string{"status"})
	metricKeeperPools = metrics.LazyLoadGauge("keeper_pool_count")
)

// keeper periodically brings every staker pool up to the current tick and
// commits, so accumulators and the persisted tick never fall far behind.
type keeper struct {
	cron *cron.Cron
	rt   *runtime.Runtime
}

func newKeeper(rt *runtime.Runtime, schedule string) (*keeper, error) {
	l := cronLogger{keeperLogger}
	k := &keeper{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		rt: rt,
	}
	if _, err := k.cron.AddFunc(schedule, k.run); err != nil {
		return nil, errors.Wrapf(err, "keeper schedule [%v]", schedule)
	}
	return k, nil
}

func (k *keeper) Start() {
	k.cron.Start()
	keeperLogger.Info("keeper started")
}

func (k *keeper) Stop() {
	<-k.cron.Stop().Done()
	keeperLogger.Info("keeper stopped")
}

func (k *keeper) run() {
	if err := k.sync(); err != nil {
		metricKeeperSyncs().AddWithLabel(1, map[string]string{"status": "failed"})
		keeperLogger.Warn("failed to sync pools", "err", err)
		return
	}
	metricKeeperSyncs().AddWithLabel(1, map[string]string{"status": "ok"})
}

func (k *keeper) sync() error {
	var (
		tick  uint64
		pools uint64
	)
	err := k.rt.Exec(func(l *runtime.Ledgers) (err error) {
		if err := l.Staker.MassUpdatePools(); err != nil {
			if errors.Is(err, reverts.ErrNotInitialized) {
				return nil
			}
			return err
		}
		tick = l.Clock.Tick()
		pools, err = l.Staker.PoolLength()
		return
	})
	if err != nil {
		return err
	}
	metricKeeperPools().Set(int64(pools))
	keeperLogger.Debug("pools synced", "tick", tick, "pools", pools)
	return nil
}

// cronLogger routes cron's own messages to the keeper logger.
type cronLogger struct {
	logger log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Trace(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append(keysAndValues, "err", err)...)
}
