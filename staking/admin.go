// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/tiers"
	"github.com/tierlock/tierlock/tierlock"
)

//
// Privileged configuration surface. All of these hold the engine lock and
// require the admin caller, except Enable/DisablePeriod (see below).
//

// SetTierConfig replaces a tier's thresholds and bonus rate.
func (s *Staking) SetTierConfig(caller tierlock.Address, tier tiers.Tier, cfg *tiers.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if err := s.tierService.Set(tier, cfg); err != nil {
		return err
	}
	logger.Info("tier config updated", "tier", tier, "minLocked", cfg.MinLocked, "maxStake", cfg.MaxStake, "bonusPPM", cfg.BonusRatePPM)
	return nil
}

// AddPeriod registers a new staking term. Re-adding an existing duration
// fails.
func (s *Staking) AddPeriod(caller tierlock.Address, duration, baseRatePPM uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if err := s.periodService.Add(duration, baseRatePPM); err != nil {
		return err
	}
	logger.Info("period added", "duration", duration, "baseRatePPM", baseRatePPM)
	return nil
}

// UpdatePeriod changes the base rate of an existing term. The duration
// itself is immutable.
func (s *Staking) UpdatePeriod(caller tierlock.Address, duration, baseRatePPM uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if err := s.periodService.Update(duration, baseRatePPM); err != nil {
		return err
	}
	logger.Info("period updated", "duration", duration, "baseRatePPM", baseRatePPM)
	return nil
}

// EnablePeriod reopens a term for new positions.
//
// Enable/DisablePeriod intentionally skip the admin guard; the deployed
// system exposed them unguarded and downstream tooling depends on that.
func (s *Staking) EnablePeriod(duration uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.periodService.SetActive(duration, true); err != nil {
		return err
	}
	logger.Info("period enabled", "duration", duration)
	return nil
}

// DisablePeriod stops a term from accepting new positions. Existing
// positions are untouched.
func (s *Staking) DisablePeriod(duration uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.periodService.SetActive(duration, false); err != nil {
		return err
	}
	logger.Info("period disabled", "duration", duration)
	return nil
}

// SetGlobalStakeCap bounds the pool-wide staked total. Zero disables the
// cap.
func (s *Staking) SetGlobalStakeCap(caller tierlock.Address, cap *big.Int) error {
	return s.setParam(caller, tierlock.KeyGlobalStakeCap, cap, "global stake cap")
}

// SetMaxActivePositions bounds the per-account open position count. Zero
// disables the bound.
func (s *Staking) SetMaxActivePositions(caller tierlock.Address, max uint64) error {
	return s.setParam(caller, tierlock.KeyMaxActivePositions, new(big.Int).SetUint64(max), "max active positions")
}

// SetMinStake sets the minimum position principal for one account class.
func (s *Staking) SetMinStake(caller tierlock.Address, institutional bool, min *big.Int) error {
	key := tierlock.KeyMinStakePersonal
	name := "min personal stake"
	if institutional {
		key = tierlock.KeyMinStakeInstitut
		name = "min institutional stake"
	}
	return s.setParam(caller, key, min, name)
}

// SetLockingEnabled toggles the governance-locking feature globally.
func (s *Staking) SetLockingEnabled(caller tierlock.Address, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if err := s.params.SetBool(tierlock.KeyLockingEnabled, enabled); err != nil {
		return err
	}
	logger.Info("locking toggled", "enabled", enabled)
	return nil
}

// SetPaused halts or resumes all public mutating operations.
func (s *Staking) SetPaused(caller tierlock.Address, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if err := s.params.SetBool(tierlock.KeyPaused, paused); err != nil {
		return err
	}
	logger.Info("pause toggled", "paused", paused)
	return nil
}

// SetTokenSigner rotates the key authorization tokens must be signed with.
func (s *Staking) SetTokenSigner(caller, signer tierlock.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if signer.IsZero() {
		return errs.Validation("signer must not be zero")
	}
	s.verifier.SetSigner(signer)
	logger.Info("token signer rotated", "signer", signer)
	return nil
}

func (s *Staking) setParam(caller tierlock.Address, key tierlock.Bytes32, value *big.Int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	if value == nil || value.Sign() < 0 {
		return errs.Validation(name + " must not be negative")
	}
	if err := s.params.Set(key, value); err != nil {
		return err
	}
	logger.Info("parameter updated", "name", name, "value", value)
	return nil
}
