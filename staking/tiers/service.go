// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tiers

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/staking/errs"
)

var slotConfigs = slot.NameToSlot("tier-configs")

// Service manages the tier table and classification.
type Service struct {
	configs *slot.Mapping[Tier, *Config]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		configs: slot.NewMapping[Tier, *Config](sctx, slotConfigs),
	}
}

// Get returns the tier's config, falling back to the seed table when
// governance never stored one.
func (s *Service) Get(tier Tier) (*Config, error) {
	if !tier.Valid() {
		return nil, errors.New("tier has no config")
	}
	cfg, err := s.configs.Get(tier)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tier config")
	}
	if cfg.IsEmpty() {
		seed := defaultConfigs[tier]
		return &seed, nil
	}
	return cfg, nil
}

// Set stores a new config for the tier.
func (s *Service) Set(tier Tier, cfg *Config) error {
	if !tier.Valid() {
		return errs.Validation("tier has no config")
	}
	if cfg.IsEmpty() || cfg.MaxStake == nil {
		return errs.Validation("tier config incomplete")
	}
	if cfg.MinLocked.Sign() < 0 || cfg.MaxStake.Sign() < 0 {
		return errs.Validation("tier config negative amount")
	}
	if err := s.configs.Set(tier, cfg); err != nil {
		return errors.Wrap(err, "failed to set tier config")
	}
	return nil
}

// Classify maps a locked balance to a tier. Evaluation runs VIP down to
// Bronze with ≥ comparisons, falling back to NoTier.
//
// When clampVIP is set (personal accounts), a balance that already
// qualifies for VIP is first clamped to one unit above the Gold minimum,
// so the result can never be VIP. Institutional accounts pass
// clampVIP=false and are unaffected.
func (s *Service) Classify(locked *big.Int, clampVIP bool) (Tier, error) {
	if locked == nil || locked.Sign() <= 0 {
		return NoTier, nil
	}

	if clampVIP {
		vip, err := s.Get(VIP)
		if err != nil {
			return NoTier, err
		}
		if locked.Cmp(vip.MinLocked) >= 0 {
			gold, err := s.Get(Gold)
			if err != nil {
				return NoTier, err
			}
			locked = new(big.Int).Add(gold.MinLocked, big.NewInt(1))
		}
	}

	for _, tier := range descending {
		cfg, err := s.Get(tier)
		if err != nil {
			return NoTier, err
		}
		if locked.Cmp(cfg.MinLocked) >= 0 {
			return tier, nil
		}
	}
	return NoTier, nil
}
