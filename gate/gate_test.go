// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/events"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/reverts"
	"github.com/vechain/stakepool/slot"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

type staticAuthority map[thor.Address]bool

func (a staticAuthority) IsAdministrator(addr thor.Address) (bool, error) {
	return a[addr], nil
}

func newTestGate(t *testing.T, authority Authority) (*Gate, *slot.Context, *events.Recorder) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := slot.NewContext(thor.BytesToAddress([]byte("ledger")), state.New(db))
	recorder := events.NewRecorder()
	return New(sctx, recorder, authority), sctx, recorder
}

func TestAdministrator(t *testing.T) {
	g, _, _ := newTestGate(t, nil)
	admin := thor.BytesToAddress([]byte("admin"))
	stranger := thor.BytesToAddress([]byte("stranger"))

	// nobody is administrator before one is set
	assert.True(t, errors.Is(g.RequireAdministrator(thor.Address{}), reverts.ErrUnauthorized))

	g.SetAdministrator(admin)
	assert.NoError(t, g.RequireAdministrator(admin))
	err := g.RequireAdministrator(stranger)
	assert.True(t, errors.Is(err, reverts.ErrUnauthorized))
	assert.Contains(t, err.Error(), stranger.String())
}

func TestExternalAuthority(t *testing.T) {
	operator := thor.BytesToAddress([]byte("operator"))
	g, _, _ := newTestGate(t, staticAuthority{operator: true})

	g.SetAdministrator(thor.BytesToAddress([]byte("admin")))
	assert.NoError(t, g.RequireAdministrator(operator))
	assert.Error(t, g.RequireAdministrator(thor.BytesToAddress([]byte("admin"))))
}

func TestPause(t *testing.T) {
	g, _, _ := newTestGate(t, nil)

	assert.NoError(t, g.RequireNotPaused())
	g.SetPaused(true)
	g.SetPaused(true)
	assert.True(t, errors.Is(g.RequireNotPaused(), reverts.ErrPaused))
	g.SetPaused(false)
	assert.NoError(t, g.RequireNotPaused())
}

func TestEnter(t *testing.T) {
	g, _, _ := newTestGate(t, nil)

	release, err := g.Enter()
	require.NoError(t, err)

	_, err = g.Enter()
	assert.True(t, errors.Is(err, reverts.ErrReentrant))

	release()
	release, err = g.Enter()
	require.NoError(t, err)
	release()
}

func TestGuardReverts(t *testing.T) {
	g, sctx, recorder := newTestGate(t, nil)
	counter := slot.NewRaw[uint64](sctx, slot.Pos("counter"))

	require.NoError(t, g.Guard(func() error {
		recorder.Add(&events.Event{Name: events.Deposit})
		return counter.Set(1)
	}))

	boom := errors.New("boom")
	err := g.Guard(func() error {
		recorder.Add(&events.Event{Name: events.Claim})
		g.SetPaused(true)
		if err := counter.Set(2); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	v, err := counter.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	paused, err := g.Paused()
	require.NoError(t, err)
	assert.False(t, paused)

	evs := recorder.Drain()
	require.Len(t, evs, 1)
	assert.Equal(t, events.Deposit, evs[0].Name)
}

func TestGuardRejectsReentry(t *testing.T) {
	g, _, _ := newTestGate(t, nil)

	var inner error
	require.NoError(t, g.Guard(func() error {
		inner = g.Guard(func() error { return nil })
		return nil
	}))
	assert.True(t, errors.Is(inner, reverts.ErrReentrant))
}
