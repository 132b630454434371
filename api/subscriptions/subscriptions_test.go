// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/xenv"
)

var (
	admin = thor.BytesToAddress([]byte("admin"))
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	token = thor.BytesToAddress([]byte("token"))
)

func newTestServer(t *testing.T) (*httptest.Server, *runtime.Runtime) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(db, nil, clock.NewManual(0))
	require.NoError(t, rt.Exec(func(l *runtime.Ledgers) error {
		for _, acc := range []thor.Address{alice, bob} {
			if err := l.Bank.Mint(token, acc, uint256.NewInt(1000)); err != nil {
				return err
			}
		}
		if err := l.Staker.Initialize(xenv.NewCall(admin), token, uint256.NewInt(1)); err != nil {
			return err
		}
		_, err := l.Staker.AddPool(xenv.NewCall(admin), token, 1, nil, 0, false)
		return err
	}))

	router := mux.NewRouter()
	subs := New(rt, []string{"*"})
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
		rt.Close()
	})
	return ts, rt
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events", RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Equal(t, "websocket", resp.Header.Get("Upgrade"))
	return conn
}

func deposit(t *testing.T, rt *runtime.Runtime, account thor.Address, amount uint64) {
	require.NoError(t, rt.Exec(func(l *runtime.Ledgers) error {
		return l.Staker.DepositToken(xenv.NewCall(account), 0, uint256.NewInt(amount))
	}))
}

func TestSubscribeEvents(t *testing.T) {
	ts, rt := newTestServer(t)

	all := dial(t, ts, "")
	onlyBob := dial(t, ts, "account="+bob.String()+"&name=Deposit")

	deposit(t, rt, alice, 10)
	deposit(t, rt, bob, 20)

	// the clock stands still, so the pool is not synced and only deposits are emitted
	var msg EventMessage
	all.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, all.ReadJSON(&msg))
	assert.Equal(t, events.Deposit, msg.Name)
	assert.Equal(t, alice, msg.Account)
	assert.Equal(t, builtin.Staker.Address, msg.Ledger)
	assert.Equal(t, uint256.NewInt(10), msg.Amount)

	onlyBob.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, onlyBob.ReadJSON(&msg))
	assert.Equal(t, bob, msg.Account)
	assert.Equal(t, uint256.NewInt(20), msg.Amount)
}

func TestSubscribeInvalidFilter(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, query := range []string{"pool=abc", "account=0x12", "ledger=zz"} {
		u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events", RawQuery: query}
		_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
		assert.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestEventFilter(t *testing.T) {
	pool := uint64(1)
	ev := &events.Event{Ledger: builtin.Staker.Address, Name: events.Claim, Pool: 1, Account: alice}

	tests := []struct {
		filter   *EventFilter
		expected bool
	}{
		{&EventFilter{}, true},
		{&EventFilter{Pool: &pool}, true},
		{&EventFilter{Account: &bob}, false},
		{&EventFilter{Ledger: &builtin.RewardPool.Address}, false},
		{&EventFilter{Names: map[string]bool{events.Deposit: true}}, false},
		{&EventFilter{Names: map[string]bool{events.Claim: true}, Account: &alice}, true},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.expected, tt.filter.Match(ev), "case %d", i)
	}
}
