// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the ledgers. It serializes every operation, persists
// the state of successful ones and publishes their events.
package runtime

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/rewardpool"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/transfer"
)

var logger = log.WithContext("pkg", "runtime")

const metaBucket = kv.Bucket("m")

var lastTickKey = []byte("last-tick")

// Ledgers is the view of the hosted ledgers handed to operations.
type Ledgers struct {
	Staker     *staker.Staker
	RewardPool *rewardpool.RewardPool
	Bank       *transfer.Bank
	Clock      clock.Clock
}

type Runtime struct {
	lock     sync.Mutex
	db       kv.Store
	eventDB  *eventdb.EventDB
	state    *state.State
	recorder *events.Recorder
	ledgers  *Ledgers

	feed  event.Feed
	scope event.SubscriptionScope
}

// New creates a runtime over db. eventDB may be nil, then events are only published.
func New(db kv.Store, eventDB *eventdb.EventDB, clk clock.Clock) *Runtime {
	st := state.New(db)
	env := &builtin.Env{
		State:    st,
		Clock:    clk,
		Bank:     transfer.NewBank(st),
		Recorder: events.NewRecorder(),
	}
	return &Runtime{
		db:       db,
		eventDB:  eventDB,
		state:    st,
		recorder: env.Recorder,
		ledgers: &Ledgers{
			Staker:     builtin.Staker.Native(env),
			RewardPool: builtin.RewardPool.Native(env),
			Bank:       env.Bank,
			Clock:      clk,
		},
	}
}

// Exec runs fn as one unit. When fn fails every change it made is discarded,
// otherwise the changes are committed and the events published.
func (r *Runtime) Exec(fn func(l *Ledgers) error) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	checkpoint := r.state.NewCheckpoint()
	mark := r.recorder.Mark()
	if err := fn(r.ledgers); err != nil {
		r.state.RevertTo(checkpoint)
		r.recorder.Truncate(mark)
		metricExecCount().AddWithLabel(1, map[string]string{"status": "failed"})
		return err
	}
	if err := r.commit(); err != nil {
		// nothing reached the db, drop the journal so the next commit does not carry it
		r.state.RevertTo(checkpoint)
		r.recorder.Truncate(mark)
		metricExecCount().AddWithLabel(1, map[string]string{"status": "failed"})
		return errors.Wrap(err, "commit")
	}
	metricExecCount().AddWithLabel(1, map[string]string{"status": "ok"})
	return nil
}

// View runs fn without committing. fn must not modify the ledgers.
func (r *Runtime) View(fn func(l *Ledgers) error) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return fn(r.ledgers)
}

func (r *Runtime) commit() error {
	tick := r.ledgers.Clock.Tick()

	batch := r.db.NewBatch()
	n, err := r.state.Commit(batch)
	if err != nil {
		return err
	}
	if err := metaBucket.NewPutter(batch).Put(lastTickKey, binary.BigEndian.AppendUint64(nil, tick)); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	r.state.Flushed()
	metricCommittedSlots().Add(int64(n))

	evs := r.recorder.Drain()
	if r.eventDB != nil {
		if err := r.eventDB.Insert(tick, evs); err != nil {
			// state is already durable, the index lags behind
			logger.Warn("failed to index events", "tick", tick, "count", len(evs), "err", err)
		}
	}
	if len(evs) > 0 {
		r.feed.Send(evs)
	}
	logger.Debug("committed", "tick", tick, "slots", n, "events", len(evs))
	return nil
}

// LastTick returns the tick of the last commit, 0 for a fresh database.
func (r *Runtime) LastTick() (uint64, error) {
	return LoadLastTick(r.db)
}

// LoadLastTick reads the tick of the last commit from db.
func LoadLastTick(db kv.Getter) (uint64, error) {
	getter := metaBucket.NewGetter(db)
	val, err := getter.Get(lastTickKey)
	if err != nil {
		if getter.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(val) != 8 {
		return 0, errors.New("corrupted last tick")
	}
	return binary.BigEndian.Uint64(val), nil
}

// SubscribeEvents delivers the events of every commit to ch.
func (r *Runtime) SubscribeEvents(ch chan<- []*events.Event) event.Subscription {
	return r.scope.Track(r.feed.Subscribe(ch))
}

// EventDB returns the event index, may be nil.
func (r *Runtime) EventDB() *eventdb.EventDB {
	return r.eventDB
}

// Close unsubscribes all subscribers.
func (r *Runtime) Close() {
	r.scope.Close()
}
