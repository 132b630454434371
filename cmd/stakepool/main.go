// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/clock"
	"github.com/vechain/stakepool/cmd/stakepool/httpserver"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Stakepool",
		Usage:     "Multi-pool staking ledger node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			tickIntervalFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			keeperScheduleFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "single node with a manual clock and funded dev accounts",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					tickIntervalFlag,
					persistFlag,
					onDemandFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiEventsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					verbosityFlag,
					jsonLogsFlag,
					pprofFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
					keeperScheduleFlag,
				},
				Action: soloAction,
			},
			{
				Name:  "inspect",
				Usage: "dump the ledger state stored in the data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					accountFlag,
					verbosityFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	logLevel := initLogger(ctx)

	gene := selectGenesis(ctx, false)
	dataDir := makeDataDir(ctx)

	mainDB := openMainDB(ctx, dataDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(dataDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	start := startTick(mainDB, gene.Tick)
	clk := clock.NewTicker(start, ctx.Duration(tickIntervalFlag.Name))

	rt := runtime.New(mainDB, eventDB, clk)
	defer rt.Close()
	initLedgers(rt, gene)

	printStartupMessage(dataDir, start, eventDB)

	runClock := func(c context.Context) error {
		return clk.Run(c, execStep(rt))
	}
	return runNode(ctx, exitSignal, rt, logLevel, runClock, func(apiURL string) {
		fmt.Printf("    API portal   [ %v ]\n", apiURL)
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	logLevel := initLogger(ctx)

	gene := selectGenesis(ctx, true)

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir = makeDataDir(ctx)
		mainDB = openMainDB(ctx, dataDir)
		eventDB = openEventDB(dataDir)
	} else {
		mainDB = openMemMainDB()
		eventDB = openMemEventDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	clk := clock.NewManual(startTick(mainDB, gene.Tick))

	rt := runtime.New(mainDB, eventDB, clk)
	defer rt.Close()
	initLedgers(rt, gene)

	var advance func(context.Context) error
	if !ctx.Bool(onDemandFlag.Name) {
		interval := ctx.Duration(tickIntervalFlag.Name)
		advance = func(c context.Context) error {
			return advanceSoloClock(c, rt, clk, interval)
		}
	}

	return runNode(ctx, exitSignal, rt, logLevel, advance, func(apiURL string) {
		printSoloStartupMessage(dataDir, clk.Tick(), apiURL)
	})
}

// runNode serves the API and the optional side servers until exitSignal fires.
// runClock drives the clock when not nil.
func runNode(
	ctx *cli.Context,
	exitSignal context.Context,
	rt *runtime.Runtime,
	logLevel *slog.LevelVar,
	runClock func(context.Context) error,
	printURL func(apiURL string),
) error {
	metricsEnabled := ctx.Bool(enableMetricsFlag.Name)
	if metricsEnabled {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs)
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		logger.Info("admin server started", "url", url)
	}

	apiHandler, apiCloser := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        metricsEnabled,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { logger.Info("stopping API server..."); srvCloser() }()
	printURL(apiURL)

	if schedule := ctx.String(keeperScheduleFlag.Name); schedule != "" {
		k, err := newKeeper(rt, schedule)
		if err != nil {
			return err
		}
		k.Start()
		defer k.Stop()
	}

	group, groupCtx := errgroup.WithContext(exitSignal)
	if runClock != nil {
		group.Go(func() error {
			return runClock(groupCtx)
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("exiting...")
		return nil
	})
	return group.Wait()
}

// advanceSoloClock moves the manual clock one tick per interval. Every step is
// committed, so the last tick survives a restart.
func advanceSoloClock(ctx context.Context, rt *runtime.Runtime, clk *clock.Manual, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := execStep(rt)(func() { clk.Advance(1) }); err != nil {
				return errors.Wrap(err, "advance clock")
			}
		}
	}
}

// execStep moves the clock inside a runtime commit, so no ledger call sees the
// tick change mid-operation and every tick is persisted.
func execStep(rt *runtime.Runtime) func(step func()) error {
	return func(step func()) error {
		return rt.Exec(func(*runtime.Ledgers) error {
			step()
			return nil
		})
	}
}

func startTick(db kv.Getter, genesisTick uint64) uint64 {
	last, err := runtime.LoadLastTick(db)
	if err != nil {
		fatal("load last tick:", err)
	}
	if genesisTick > last {
		return genesisTick
	}
	return last
}
