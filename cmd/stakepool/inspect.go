// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/builtin/rewardpool"
	"github.com/vechain/stakepool/builtin/staker/pool"
	"github.com/vechain/stakepool/builtin/staker/position"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
)

type stakerSnapshot struct {
	Administrator thor.Address
	Paused        bool
	RewardAsset   thor.Address
	RewardPerTick *uint256.Int
	TotalWeight   uint64
	Pools         []*pool.Pool
}

type rewardPoolSnapshot struct {
	Administrator thor.Address
	Paused        bool
	Info          *rewardpool.Info
}

type stakerPosition struct {
	PoolID   uint64
	Position *position.Position
	Pending  *uint256.Int
	Locked   *uint256.Int
	Unlocked *uint256.Int
}

type accountSnapshot struct {
	Address          thor.Address
	Staker           []*stakerPosition
	RewardPool       *position.Position
	RewardPoolReward *uint256.Int
}

type snapshot struct {
	Tick       uint64
	Staker     *stakerSnapshot
	RewardPool *rewardPoolSnapshot
	Accounts   []*accountSnapshot
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)

	var accounts []thor.Address
	for _, s := range ctx.StringSlice(accountFlag.Name) {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.Wrapf(err, "account [%v]", s)
		}
		accounts = append(accounts, addr)
	}

	dir := filepath.Join(ctx.String(dataDirFlag.Name), "main.db")
	if _, err := os.Stat(dir); err != nil {
		return errors.Wrap(err, "main database")
	}
	db, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		return errors.Wrapf(err, "open main database [%v]", dir)
	}
	defer db.Close()

	snap, err := takeSnapshot(db, accounts)
	if err != nil {
		return err
	}
	fmt.Print(dumpConfig.Sdump(snap))
	return nil
}

// takeSnapshot reads the ledgers as of the last commit in db.
func takeSnapshot(db kv.Store, accounts []thor.Address) (*snapshot, error) {
	tick, err := runtime.LoadLastTick(db)
	if err != nil {
		return nil, err
	}
	rt := runtime.New(db, nil, clock.NewManual(tick))
	defer rt.Close()

	snap := &snapshot{Tick: tick}
	err = rt.View(func(l *runtime.Ledgers) error {
		var err error
		if snap.Staker, err = snapshotStaker(l); err != nil {
			return errors.Wrap(err, "staker")
		}
		if snap.RewardPool, err = snapshotRewardPool(l); err != nil {
			return errors.Wrap(err, "reward pool")
		}
		for _, addr := range accounts {
			acc, err := snapshotAccount(l, addr, uint64(len(snap.Staker.Pools)))
			if err != nil {
				return errors.Wrapf(err, "account %v", addr)
			}
			snap.Accounts = append(snap.Accounts, acc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func snapshotStaker(l *runtime.Ledgers) (s *stakerSnapshot, err error) {
	s = &stakerSnapshot{}
	if s.Administrator, err = l.Staker.Administrator(); err != nil {
		return
	}
	if s.Paused, err = l.Staker.Paused(); err != nil {
		return
	}
	if s.RewardAsset, err = l.Staker.RewardAsset(); err != nil {
		return
	}
	if s.RewardPerTick, err = l.Staker.RewardPerTick(); err != nil {
		return
	}
	if s.TotalWeight, err = l.Staker.TotalWeight(); err != nil {
		return
	}
	n, err := l.Staker.PoolLength()
	if err != nil {
		return nil, err
	}
	for id := range n {
		p, err := l.Staker.GetPool(id)
		if err != nil {
			return nil, err
		}
		s.Pools = append(s.Pools, p)
	}
	return s, nil
}

func snapshotRewardPool(l *runtime.Ledgers) (s *rewardPoolSnapshot, err error) {
	s = &rewardPoolSnapshot{}
	if s.Administrator, err = l.RewardPool.Administrator(); err != nil {
		return
	}
	if s.Paused, err = l.RewardPool.Paused(); err != nil {
		return
	}
	if s.Info, err = l.RewardPool.Info(); err != nil {
		return
	}
	return s, nil
}

func snapshotAccount(l *runtime.Ledgers, addr thor.Address, pools uint64) (*accountSnapshot, error) {
	acc := &accountSnapshot{Address: addr}
	for id := range pools {
		pos, err := l.Staker.GetPosition(id, addr)
		if err != nil {
			return nil, err
		}
		pending, err := l.Staker.PendingReward(id, addr)
		if err != nil {
			return nil, err
		}
		locked, unlocked, err := l.Staker.WithdrawAmount(id, addr)
		if err != nil {
			return nil, err
		}
		acc.Staker = append(acc.Staker, &stakerPosition{
			PoolID:   id,
			Position: pos,
			Pending:  pending,
			Locked:   locked,
			Unlocked: unlocked,
		})
	}

	var err error
	if acc.RewardPool, err = l.RewardPool.UserInfo(addr); err != nil {
		return nil, err
	}
	if acc.RewardPoolReward, err = l.RewardPool.PendingReward(addr); err != nil {
		return nil, err
	}
	return acc, nil
}
