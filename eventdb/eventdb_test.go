// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/thor"
)

var (
	staker = thor.BytesToAddress([]byte("Staker"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
)

func newTestDB(t *testing.T) *EventDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var evs []*events.Event
	for tick := uint64(1); tick <= 10; tick++ {
		account := alice
		if tick%2 == 0 {
			account = bob
		}
		evs = append(evs, &events.Event{
			Ledger:  staker,
			Name:    events.Deposit,
			Tick:    tick,
			Pool:    tick % 3,
			Account: account,
			Amount:  uint256.NewInt(tick * 100),
		})
	}
	evs = append(evs, &events.Event{Ledger: staker, Name: events.Paused, Tick: 10})
	require.NoError(t, db.Insert(10, evs))
	return db
}

func TestInsertAndFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 11)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, uint256.NewInt(100), all[0].Amount)
	assert.Equal(t, alice, all[0].Account)
	assert.Equal(t, staker, all[0].Ledger)
	assert.True(t, all[10].Amount.IsZero())

	last, err := db.LastTick()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), last)

	pool := uint64(1)
	tests := []struct {
		name   string
		filter *Filter
		ticks  []uint64
	}{
		{"range", &Filter{Range: &Range{From: 3, To: 5}}, []uint64{3, 4, 5}},
		{"open range", &Filter{Range: &Range{From: 9}, Names: []string{events.Deposit}}, []uint64{9, 10}},
		{"account", &Filter{Account: &alice, Range: &Range{From: 1, To: 5}}, []uint64{1, 3, 5}},
		{"pool", &Filter{Pool: &pool}, []uint64{1, 4, 7, 10}},
		{"names", &Filter{Names: []string{events.Paused, events.Withdraw}}, []uint64{10}},
		{"desc", &Filter{Order: DESC, Account: &bob, Options: &Options{Limit: 2}}, []uint64{10, 8}},
		{"offset", &Filter{Account: &bob, Options: &Options{Offset: 1, Limit: 2}}, []uint64{4, 6}},
		{"ledger", &Filter{Ledger: &alice}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, err := db.Filter(ctx, tt.filter)
			require.NoError(t, err)
			var ticks []uint64
			for _, ev := range evs {
				ticks = append(ticks, ev.Tick)
			}
			assert.Equal(t, tt.ticks, ticks)
		})
	}
}

func TestLastTickEmpty(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	tick, err := db.LastTick()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tick)

	require.NoError(t, db.Insert(7, nil))
	tick, err = db.LastTick()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), tick)
}

func TestFilterRandomEvents(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	accounts := datagen.RandAddresses(5)
	byAccount := make(map[thor.Address][]*events.Event)
	for tick := uint64(1); tick <= 20; tick++ {
		var evs []*events.Event
		for range datagen.RandIntN(10) {
			ev := datagen.RandEvent(staker, tick, accounts)
			evs = append(evs, ev)
			byAccount[ev.Account] = append(byAccount[ev.Account], ev)
		}
		require.NoError(t, db.Insert(tick, evs))
	}

	for _, account := range accounts {
		got, err := db.Filter(context.Background(), &Filter{Account: &account})
		require.NoError(t, err)

		want := byAccount[account]
		require.Len(t, got, len(want))
		for i, ev := range got {
			assert.Equal(t, want[i].Name, ev.Name)
			assert.Equal(t, want[i].Tick, ev.Tick)
			assert.Equal(t, want[i].Pool, ev.Pool)
			assert.Equal(t, want[i].Amount, ev.Amount)
			if i > 0 {
				assert.Greater(t, ev.Seq, got[i-1].Seq)
			}
		}
	}
}
