// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/runtime"
)

type Status struct {
	Tick          uint64 `json:"tick"`
	CommittedTick uint64 `json:"committedTick"`
	IndexedTick   uint64 `json:"indexedTick"`
	ManualClock   bool   `json:"manualClock"`
}

type AdvanceRequest struct {
	Ticks uint64 `json:"ticks"`
}

type Node struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Node {
	return &Node{rt}
}

func (n *Node) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	var status Status
	if err := n.rt.View(func(l *runtime.Ledgers) error {
		status.Tick = l.Clock.Tick()
		_, status.ManualClock = l.Clock.(*clock.Manual)
		return nil
	}); err != nil {
		return err
	}
	committed, err := n.rt.LastTick()
	if err != nil {
		return err
	}
	status.CommittedTick = committed
	if db := n.rt.EventDB(); db != nil {
		if status.IndexedTick, err = db.LastTick(); err != nil {
			return err
		}
	}
	return utils.WriteJSON(w, &status)
}

// handleAdvance moves a manual clock forward. The new tick is committed, so
// a restarted solo node resumes from it.
func (n *Node) handleAdvance(w http.ResponseWriter, req *http.Request) error {
	var body AdvanceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Ticks == 0 {
		return utils.BadRequest(errors.New("ticks: must be positive"))
	}
	var tick uint64
	if err := n.rt.Exec(func(l *runtime.Ledgers) error {
		manual, ok := l.Clock.(*clock.Manual)
		if !ok {
			return utils.Forbidden(errors.New("clock is not manual"))
		}
		tick = manual.Advance(body.Ticks)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"tick": tick})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /node/status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetStatus))
	sub.Path("/clock/advance").
		Methods(http.MethodPost).
		Name("POST /node/clock/advance").
		HandlerFunc(utils.WrapHandlerFunc(n.handleAdvance))
}
