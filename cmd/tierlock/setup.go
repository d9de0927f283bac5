// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	isatty "github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/tierlock/tierlock/eventdb"
	"github.com/tierlock/tierlock/kv"
	"github.com/tierlock/tierlock/locking"
	"github.com/tierlock/tierlock/log"
	"github.com/tierlock/tierlock/metrics"
	"github.com/tierlock/tierlock/params"
	"github.com/tierlock/tierlock/staking"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
	"github.com/tierlock/tierlock/token"
)

// Well-known storage addresses of the ledger components.
var (
	addrStaking   = nameToAddress("staking")
	addrParams    = nameToAddress("params")
	addrStakeCoin = nameToAddress("stake-coin")
	addrLockCoin  = nameToAddress("lock-coin")
	addrLocking   = nameToAddress("locking")
	addrPool      = nameToAddress("pool")
)

func nameToAddress(name string) tierlock.Address {
	hash := tierlock.Blake2b([]byte("tierlock:" + name))
	return tierlock.BytesToAddress(hash[12:])
}

func initLogger(ctx *cli.Context) {
	verbosity := ctx.Int(verbosityFlag.Name)
	level := slog.LevelInfo
	switch {
	case verbosity >= 5:
		level = slog.LevelDebug
	case verbosity <= 1:
		level = slog.LevelError
	case verbosity == 2:
		level = slog.LevelWarn
	}

	if !ctx.Bool(jsonLogsFlag.Name) && isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetDefault(log.NewTerminalHandlerWithLevel(level))
	} else {
		log.SetDefault(log.NewJSONHandler(level))
	}
}

func initMetrics(ctx *cli.Context) {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

func openMainDB(cfg *Config) (kv.GetPutCloser, error) {
	if cfg.DataDir == "" {
		return kv.NewMem()
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, err
	}
	return kv.New(filepath.Join(cfg.DataDir, "main.db"), 128)
}

func openEventDB(cfg *Config) (*eventdb.EventDB, error) {
	path := cfg.EventDBPath
	if path == "" {
		if cfg.DataDir == "" {
			return eventdb.NewMem()
		}
		path = filepath.Join(cfg.DataDir, "events.db")
	}
	return eventdb.New(path)
}

// buildEngine wires storage, collaborators and the lifecycle engine, and
// seeds governance defaults on first run.
func buildEngine(cfg *Config, st *state.State) (*staking.Staking, error) {
	admin, err := cfg.adminAddress()
	if err != nil {
		return nil, err
	}
	signer, err := cfg.signerAddress()
	if err != nil {
		return nil, err
	}

	param := params.New(addrParams, st)
	if err := seedParams(param); err != nil {
		return nil, err
	}

	stakeCoin := token.New(addrStakeCoin, st)
	lockCoin := token.New(addrLockCoin, st)
	lockLedger := locking.New(addrLocking, st)

	engine := staking.New(
		staking.Config{
			Address:  addrStaking,
			Pool:     addrPool,
			SystemID: cfg.systemID(),
			Signer:   signer,
			Admin:    admin,
		},
		st, param, stakeCoin, lockCoin, lockLedger,
	)

	// periods registered on an earlier run stay as they are
	existing, err := engine.GetPeriods()
	if err != nil {
		return nil, err
	}
	registered := make(map[uint32]bool, len(existing))
	for _, p := range existing {
		registered[p.DurationMonths] = true
	}
	for _, p := range cfg.Periods {
		if registered[p.DurationMonths] {
			continue
		}
		if err := engine.AddPeriod(admin, p.DurationMonths, p.BaseRatePPM); err != nil {
			return nil, errors.WithMessage(err, "seed periods")
		}
	}
	return engine, nil
}

// seedParams writes the governance defaults for keys never set.
func seedParams(param *params.Params) error {
	defaults := []struct {
		key   tierlock.Bytes32
		value *big.Int
	}{
		{tierlock.KeyGlobalStakeCap, tierlock.InitialGlobalStakeCap},
		{tierlock.KeyMaxActivePositions, tierlock.InitialMaxActivePositions},
		{tierlock.KeyMinStakePersonal, tierlock.InitialMinStakePersonal},
		{tierlock.KeyMinStakeInstitut, tierlock.InitialMinStakeInstitut},
	}
	for _, d := range defaults {
		current, err := param.Get(d.key)
		if err != nil {
			return err
		}
		if current.Sign() != 0 {
			continue
		}
		if err := param.Set(d.key, d.value); err != nil {
			return err
		}
	}
	return nil
}
