// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
)

type Balance struct {
	Asset   thor.Address `json:"asset"`
	Holder  thor.Address `json:"holder"`
	Balance *uint256.Int `json:"balance"`
}

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	asset, err := utils.AddressVar(req, "asset")
	if err != nil {
		return err
	}
	b := Balance{Asset: asset, Holder: holder}
	if err := a.rt.View(func(l *runtime.Ledgers) (err error) {
		b.Balance, err = l.Bank.BalanceOf(asset, holder)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &b)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/balances/{asset}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/balances/{asset}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
}
