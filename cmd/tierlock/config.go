// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/tierlock/tierlock/tierlock"
)

// Config is the yaml node configuration. Flags override file values.
type Config struct {
	DataDir     string `yaml:"dataDir"`
	EventDBPath string `yaml:"eventDBPath"`

	Admin    string `yaml:"admin"`
	Signer   string `yaml:"signer"`
	SystemID string `yaml:"systemID"`

	API struct {
		Addr           string `yaml:"addr"`
		AllowedOrigins string `yaml:"allowedOrigins"`
	} `yaml:"api"`

	Periods []struct {
		DurationMonths uint32 `yaml:"durationMonths"`
		BaseRatePPM    uint32 `yaml:"baseRatePPM"`
	} `yaml:"periods"`
}

func loadConfig(ctx *cli.Context) (*Config, error) {
	var cfg Config
	cfg.API.Addr = "localhost:8599"
	cfg.SystemID = "tierlock"

	if path := ctx.String(configFlag.Name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithMessage(err, "read config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.WithMessage(err, "parse config")
		}
	}

	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) || cfg.API.Addr == "" {
		cfg.API.Addr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.API.AllowedOrigins = ctx.String(apiCorsFlag.Name)
	}
	return &cfg, nil
}

func (c *Config) adminAddress() (tierlock.Address, error) {
	if c.Admin == "" {
		return tierlock.Address{}, errors.New("config: admin address required")
	}
	addr, err := tierlock.ParseAddress(c.Admin)
	if err != nil {
		return tierlock.Address{}, errors.WithMessage(err, "config: admin")
	}
	return *addr, nil
}

func (c *Config) signerAddress() (tierlock.Address, error) {
	if c.Signer == "" {
		return tierlock.Address{}, errors.New("config: signer address required")
	}
	addr, err := tierlock.ParseAddress(c.Signer)
	if err != nil {
		return tierlock.Address{}, errors.WithMessage(err, "config: signer")
	}
	return *addr, nil
}

func (c *Config) systemID() tierlock.Bytes32 {
	return tierlock.Blake2b([]byte(c.SystemID))
}
