// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

var (
	admin = thor.BytesToAddress([]byte("admin"))
	alice = thor.BytesToAddress([]byte("alice"))
	token = thor.BytesToAddress([]byte("token"))
)

func setup(t *testing.T, l *Ledgers) error {
	if err := l.Bank.Mint(token, alice, uint256.NewInt(1000)); err != nil {
		return err
	}
	if err := l.Bank.Mint(token, builtin.Staker.Address, uint256.NewInt(1_000_000)); err != nil {
		return err
	}
	if err := l.Staker.Initialize(xenv.NewCall(admin), token, uint256.NewInt(10)); err != nil {
		return err
	}
	_, err := l.Staker.AddPool(xenv.NewCall(admin), token, 1, nil, 5, false)
	return err
}

func TestRuntime_CommitAndReload(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	defer edb.Close()

	clk := clock.NewManual(3)
	rt := New(db, edb, clk)
	defer rt.Close()

	ch := make(chan []*events.Event, 10)
	sub := rt.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	require.NoError(t, rt.Exec(func(l *Ledgers) error { return setup(t, l) }))
	require.NoError(t, rt.Exec(func(l *Ledgers) error {
		return l.Staker.DepositToken(xenv.NewCall(alice), 0, uint256.NewInt(100))
	}))

	select {
	case evs := <-ch:
		assert.Equal(t, events.Initialized, evs[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no events published")
	}

	tick, err := rt.LastTick()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), tick)

	indexed, err := edb.Filter(context.Background(), &eventdb.Filter{Names: []string{events.Deposit}})
	require.NoError(t, err)
	require.Len(t, indexed, 1)
	assert.Equal(t, alice, indexed[0].Account)

	// a runtime over the same db sees the committed state
	clk.Advance(2)
	reloaded := New(db, nil, clk)
	require.NoError(t, reloaded.View(func(l *Ledgers) error {
		pending, err := l.Staker.PendingReward(0, alice)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(20), pending)

		bal, err := l.Bank.BalanceOf(token, alice)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(900), bal)
		return nil
	}))
}

func TestRuntime_FailedExecDiscardsChanges(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	rt := New(db, nil, clock.NewManual(0))
	require.NoError(t, rt.Exec(func(l *Ledgers) error { return setup(t, l) }))

	ch := make(chan []*events.Event, 10)
	sub := rt.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	boom := errors.New("boom")
	err = rt.Exec(func(l *Ledgers) error {
		if err := l.Staker.DepositToken(xenv.NewCall(alice), 0, uint256.NewInt(100)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = rt.Exec(func(l *Ledgers) error {
		return l.Staker.DepositToken(xenv.NewCall(alice), 0, uint256.NewInt(5000))
	})
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	require.NoError(t, rt.View(func(l *Ledgers) error {
		pos, err := l.Staker.GetPosition(0, alice)
		require.NoError(t, err)
		assert.True(t, pos.Staked.IsZero())
		return nil
	}))
	assert.Empty(t, ch)

	// nothing reached the db either
	reloaded := New(db, nil, clock.NewManual(0))
	require.NoError(t, reloaded.View(func(l *Ledgers) error {
		p, err := l.Staker.GetPool(0)
		require.NoError(t, err)
		assert.True(t, p.TotalStaked.IsZero())
		return nil
	}))
}

// failingStore fails the write of the next batch once armed.
type failingStore struct {
	*lvldb.LevelDB
	fail bool
}

func (s *failingStore) NewBatch() kv.Batch {
	return &failingBatch{Batch: s.LevelDB.NewBatch(), store: s}
}

type failingBatch struct {
	kv.Batch
	store *failingStore
}

func (b *failingBatch) Write() error {
	if b.store.fail {
		b.store.fail = false
		return errors.New("disk full")
	}
	return b.Batch.Write()
}

func TestRuntime_FailedCommitDiscardsChanges(t *testing.T) {
	ldb, err := lvldb.NewMem()
	require.NoError(t, err)
	defer ldb.Close()
	db := &failingStore{LevelDB: ldb}

	clk := clock.NewManual(1)
	rt := New(db, nil, clk)
	defer rt.Close()
	require.NoError(t, rt.Exec(func(l *Ledgers) error { return setup(t, l) }))

	ch := make(chan []*events.Event, 10)
	sub := rt.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	db.fail = true
	err = rt.Exec(func(l *Ledgers) error {
		return l.Staker.DepositToken(xenv.NewCall(alice), 0, uint256.NewInt(100))
	})
	assert.ErrorContains(t, err, "disk full")

	clk.Advance(1)
	require.NoError(t, rt.Exec(func(*Ledgers) error { return nil }))
	assert.Empty(t, ch)

	require.NoError(t, rt.View(func(l *Ledgers) error {
		pos, err := l.Staker.GetPosition(0, alice)
		require.NoError(t, err)
		assert.True(t, pos.Staked.IsZero())
		return nil
	}))

	reloaded := New(ldb, nil, clk)
	require.NoError(t, reloaded.View(func(l *Ledgers) error {
		p, err := l.Staker.GetPool(0)
		require.NoError(t, err)
		assert.True(t, p.TotalStaked.IsZero())

		bal, err := l.Bank.BalanceOf(token, alice)
		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(1000), bal)
		return nil
	}))

	tick, err := LoadLastTick(ldb)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tick)
}

func TestLoadLastTick(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	tick, err := LoadLastTick(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tick)
}
