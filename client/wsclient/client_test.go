// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/client/common"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/xenv"
)

func newDevnet(t *testing.T) (*httptest.Server, *runtime.Runtime) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(db, nil, clock.NewManual(0))
	require.NoError(t, rt.Exec(func(l *runtime.Ledgers) error {
		_, err := genesis.NewDevnet().Apply(l)
		return err
	}))

	handler, closer := api.New(rt, api.Options{AllowedOrigins: "*"})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closer()
		ts.Close()
		rt.Close()
	})
	return ts, rt
}

func TestNewClient(t *testing.T) {
	for _, tt := range []struct {
		url    string
		host   string
		scheme string
	}{
		{"http://localhost:8669", "localhost:8669", "ws"},
		{"ws://localhost:8669/", "localhost:8669", "ws"},
		{"https://node.example", "node.example", "wss"},
		{"wss://node.example", "node.example", "wss"},
	} {
		c, err := NewClient(tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.host, c.host)
		assert.Equal(t, tt.scheme, c.scheme)
	}

	_, err := NewClient("localhost:8669")
	assert.Error(t, err)
}

func TestSubscribeEvents(t *testing.T) {
	ts, rt := newDevnet(t)
	dev := genesis.DevAccounts()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	sub, err := c.SubscribeEvents("account=" + dev[2].Address.String())
	require.NoError(t, err)

	stake := uint256.NewInt(1e18)
	for _, acc := range []genesis.DevAccount{dev[1], dev[2]} {
		require.NoError(t, rt.Exec(func(l *runtime.Ledgers) error {
			return l.Staker.DepositNative(xenv.NewCall(acc.Address).WithValue(stake), 0)
		}))
	}

	select {
	case ev := <-sub.EventChan:
		require.NoError(t, ev.Error)
		assert.Equal(t, events.Deposit, ev.Data.Name)
		assert.Equal(t, dev[2].Address, ev.Data.Account)
		assert.Equal(t, builtin.Staker.Address, ev.Data.Ledger)
		assert.Equal(t, stake, ev.Data.Amount)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	require.NoError(t, sub.Unsubscribe())
	select {
	case ev, ok := <-sub.EventChan:
		if ok {
			assert.ErrorIs(t, ev.Error, common.ErrUnexpectedMsg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestSubscribeBadQuery(t *testing.T) {
	ts, _ := newDevnet(t)

	c, err := NewClient(ts.URL)
	require.NoError(t, err)

	_, err = c.SubscribeEvents("pool=abc")
	assert.Error(t, err)
}
