// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/runtime"
)

type Staker struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staker {
	return &Staker{rt}
}

func (s *Staker) handleGetLedger(w http.ResponseWriter, _ *http.Request) error {
	var ledger Ledger
	err := s.rt.View(func(l *runtime.Ledgers) (err error) {
		st := l.Staker
		ledger.Address = st.Address()
		ledger.Tick = l.Clock.Tick()
		if ledger.Administrator, err = st.Administrator(); err != nil {
			return
		}
		if ledger.Paused, err = st.Paused(); err != nil {
			return
		}
		if ledger.RewardAsset, err = st.RewardAsset(); err != nil {
			return
		}
		if ledger.RewardPerTick, err = st.RewardPerTick(); err != nil {
			return
		}
		if ledger.TotalWeight, err = st.TotalWeight(); err != nil {
			return
		}
		ledger.PoolLength, err = st.PoolLength()
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &ledger)
}

func (s *Staker) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	var pools []*Pool
	err := s.rt.View(func(l *runtime.Ledgers) error {
		n, err := l.Staker.PoolLength()
		if err != nil {
			return err
		}
		pools = make([]*Pool, 0, n)
		for id := uint64(0); id < n; id++ {
			p, err := l.Staker.GetPool(id)
			if err != nil {
				return err
			}
			pools = append(pools, convertPool(id, p))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pools)
}

func (s *Staker) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var p *Pool
	if err := s.rt.View(func(l *runtime.Ledgers) error {
		pl, err := l.Staker.GetPool(id)
		if err != nil {
			return err
		}
		p = convertPool(id, pl)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, p)
}

func (s *Staker) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var acc *Account
	if err := s.rt.View(func(l *runtime.Ledgers) error {
		pos, err := l.Staker.GetPosition(id, addr)
		if err != nil {
			return err
		}
		pending, err := l.Staker.PendingReward(id, addr)
		if err != nil {
			return err
		}
		locked, unlocked, err := l.Staker.WithdrawAmount(id, addr)
		if err != nil {
			return err
		}
		reqs, err := l.Staker.Requests(id, addr)
		if err != nil {
			return err
		}
		acc = convertAccount(pos, pending, locked, unlocked, reqs, l.Clock.Tick())
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (s *Staker) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body DepositRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if body.Amount == nil && body.Value == nil {
		return utils.BadRequest(errors.New("amount or value required"))
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		call := body.call().WithValue(body.Value)
		if body.Amount == nil && body.Value != nil {
			return l.Staker.DepositNative(call, id)
		}
		return l.Staker.DepositToken(call, id, body.Amount)
	})
}

func (s *Staker) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body UnstakeRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.Unstake(body.call(), id, body.Amount)
	})
}

func (s *Staker) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, r *Receipt) (err error) {
		r.Amount, err = l.Staker.Withdraw(body.call(), id)
		return
	})
}

func (s *Staker) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, r *Receipt) (err error) {
		r.Amount, err = l.Staker.Claim(body.call(), id)
		return
	})
}

func (s *Staker) handleUpdatePool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.UpdatePool(id)
	})
}

func (s *Staker) handleMassUpdatePools(w http.ResponseWriter, _ *http.Request) error {
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.MassUpdatePools()
	})
}

func (s *Staker) handleAddPool(w http.ResponseWriter, req *http.Request) error {
	var body AddPoolRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, r *Receipt) error {
		id, err := l.Staker.AddPool(body.call(), body.Asset, body.Weight, body.MinDeposit, body.LockDuration, body.WithdrawPaused)
		if err != nil {
			return err
		}
		r.PoolID = &id
		return nil
	})
}

func (s *Staker) handleSetPoolWeight(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body WeightRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.SetPoolWeight(body.call(), id, body.Weight)
	})
}

func (s *Staker) handleSetPoolParams(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body ParamsRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.SetPoolParams(body.call(), id, body.MinDeposit, body.LockDuration)
	})
}

func (s *Staker) handleSetWithdrawPaused(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body WithdrawPausedRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.SetWithdrawPaused(body.call(), id, body.Paused)
	})
}

func (s *Staker) handleSetRewardPerTick(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if body.RewardPerTick == nil {
		return utils.BadRequest(errors.New("rewardPerTick: required"))
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.SetRewardPerTick(body.call(), body.RewardPerTick)
	})
}

func (s *Staker) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.Pause(body.call())
	})
}

func (s *Staker) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	var body Call
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.Unpause(body.call())
	})
}

func (s *Staker) handleTransferAdministrator(w http.ResponseWriter, req *http.Request) error {
	var body AdministratorRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	return s.exec(w, func(l *runtime.Ledgers, _ *Receipt) error {
		return l.Staker.TransferAdministrator(body.call(), body.Administrator)
	})
}

// exec runs fn as one committed operation and responds its receipt.
func (s *Staker) exec(w http.ResponseWriter, fn func(l *runtime.Ledgers, r *Receipt) error) error {
	var r Receipt
	if err := s.rt.Exec(func(l *runtime.Ledgers) error {
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

func (s *Staker) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staker").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetLedger))
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /staker/pools").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPools))
	sub.Path("/pools").
		Methods(http.MethodPost).
		Name("POST /staker/pools").
		HandlerFunc(utils.WrapHandlerFunc(s.handleAddPool))
	sub.Path("/pools/update").
		Methods(http.MethodPost).
		Name("POST /staker/pools/update").
		HandlerFunc(utils.WrapHandlerFunc(s.handleMassUpdatePools))
	sub.Path("/pools/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /staker/pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/pools/{id:[0-9]+}/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /staker/pools/{id}/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))

	for path, h := range map[string]utils.HandlerFunc{
		"/deposit":         s.handleDeposit,
		"/unstake":         s.handleUnstake,
		"/withdraw":        s.handleWithdraw,
		"/claim":           s.handleClaim,
		"/update":          s.handleUpdatePool,
		"/weight":          s.handleSetPoolWeight,
		"/params":          s.handleSetPoolParams,
		"/withdraw-paused": s.handleSetWithdrawPaused,
	} {
		sub.Path("/pools/{id:[0-9]+}" + path).
			Methods(http.MethodPost).
			Name("POST /staker/pools/{id}" + path).
			HandlerFunc(utils.WrapHandlerFunc(h))
	}

	sub.Path("/reward-per-tick").
		Methods(http.MethodPost).
		Name("POST /staker/reward-per-tick").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetRewardPerTick))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /staker/pause").
		HandlerFunc(utils.WrapHandlerFunc(s.handlePause))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		Name("POST /staker/unpause").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnpause))
	sub.Path("/administrator").
		Methods(http.MethodPost).
		Name("POST /staker/administrator").
		HandlerFunc(utils.WrapHandlerFunc(s.handleTransferAdministrator))
}
