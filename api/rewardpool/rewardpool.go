// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/runtime"
)

type RewardPool struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *RewardPool {
	return &RewardPool{rt}
}

func (p *RewardPool) handleGetLedger(w http.ResponseWriter, _ *http.Request) error {
	var ledger Ledger
	if err := p.rt.View(func(l *runtime.Ledgers) (err error) {
		rp := l.RewardPool
		ledger.Address = rp.Address()
		ledger.Tick = l.Clock.Tick()
		if ledger.Administrator, err = rp.Administrator(); err != nil {
			return
		}
		if ledger.Paused, err = rp.Paused(); err != nil {
			return
		}
		info, err := rp.Info()
		if err != nil {
			return err
		}
		ledger.StakeAsset = info.StakeAsset
		ledger.RewardAsset = info.RewardAsset
		ledger.RewardPerTick = info.RewardPerTick
		ledger.TotalStaked = info.TotalStaked
		ledger.AccRewardPerShare = info.AccRewardPerShare
		ledger.LastUpdateTick = info.LastUpdateTick
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &ledger)
}

func (p *RewardPool) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var acc Account
	if err := p.rt.View(func(l *runtime.Ledgers) error {
		pos, err := l.RewardPool.UserInfo(addr)
		if err != nil {
			return err
		}
		pending, err := l.RewardPool.PendingReward(addr)
		if err != nil {
			return err
		}
		acc = Account{
			Staked:     pos.Staked,
			RewardDebt: pos.RewardDebt,
			Banked:     pos.Banked,
			Pending:    pending,
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &acc)
}

func (p *RewardPool) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := parseAmount(req, &body); err != nil {
		return err
	}
	return p.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.RewardPool.Deposit(body.call().WithValue(body.Value), body.Amount)
	})
}

func (p *RewardPool) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := parseAmount(req, &body); err != nil {
		return err
	}
	if body.Value != nil {
		return utils.BadRequest(errors.New("value: not accepted"))
	}
	return p.exec(w, func(l *runtime.Ledgers, r *Receipt) (err error) {
		r.Reward, err = l.RewardPool.Withdraw(body.call(), body.Amount)
		return
	})
}

func (p *RewardPool) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return p.exec(w, func(l *runtime.Ledgers, r *Receipt) (err error) {
		r.Reward, err = l.RewardPool.Claim(body.call())
		return
	})
}

func (p *RewardPool) handleSetRewardPerTick(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if body.RewardPerTick == nil {
		return utils.BadRequest(errors.New("rewardPerTick: required"))
	}
	return p.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.RewardPool.SetRewardPerTick(body.call(), body.RewardPerTick)
	})
}

func (p *RewardPool) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return p.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.RewardPool.Pause(body.call())
	})
}

func (p *RewardPool) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return p.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.RewardPool.Unpause(body.call())
	})
}

func (p *RewardPool) handleTransferAdministrator(w http.ResponseWriter, req *http.Request) error {
	var body AdministratorRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return p.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.RewardPool.TransferAdministrator(body.call(), body.Administrator)
	})
}

func (p *RewardPool) exec(w http.ResponseWriter, fn func(l *runtime.Ledgers, r *Receipt) error) error {
	var r Receipt
	if err := p.rt.Exec(func(l *runtime.Ledgers) error {
		r.Tick = l.Clock.Tick()
		return fn(l, &r)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &r)
}

func parseBody(req *http.Request, v any) error {
	if err := utils.ParseJSON(req.Body, v); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

func parseAmount(req *http.Request, body *AmountRequest) error {
	if err := parseBody(req, body); err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return nil
}

func (p *RewardPool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /rewardpool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetLedger))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /rewardpool/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetAccount))

	for path, h := range map[string]utils.HandlerFunc{
		"/deposit":         p.handleDeposit,
		"/withdraw":        p.handleWithdraw,
		"/claim":           p.handleClaim,
		"/reward-per-tick": p.handleSetRewardPerTick,
		"/pause":           p.handlePause,
		"/unpause":         p.handleUnpause,
		"/administrator":   p.handleTransferAdministrator,
	} {
		sub.Path(path).
			Methods(http.MethodPost).
			Name("POST /rewardpool" + path).
			HandlerFunc(utils.WrapHandlerFunc(h))
	}
}
