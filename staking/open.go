// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"time"

	"github.com/tierlock/tierlock/calendar"
	"github.com/tierlock/tierlock/staking/accounts"
	"github.com/tierlock/tierlock/staking/auth"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/staking/tiers"
	"github.com/tierlock/tierlock/tierlock"
)

// OpenPosition opens a new staking position for the caller.
//
// Validation runs in fixed order before any state change. The token is
// consumed first, so it is burned even when a later validation fails.
func (s *Staking) OpenPosition(
	caller tierlock.Address,
	userType accounts.UserType,
	duration uint32,
	amount *big.Int,
	useLocking bool,
	token *auth.Token,
	now uint64,
) (positions.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer metricDuration(time.Now())
	logger.Debug("opening position", "caller", caller, "duration", duration, "amount", amount, "useLocking", useLocking)

	id, err := s.openPosition(caller, userType, duration, amount, useLocking, token, now)
	if err != nil {
		countFailure(OpOpenPosition, err)
		logger.Info("open position failed", "caller", caller, "error", err)
		return 0, err
	}

	metricPositionsOpened().Add(1)
	metricActivePositions().Add(1)
	s.record(OpOpenPosition, caller, id, amount, now)
	logger.Info("opened position", "caller", caller, "id", id)
	return id, nil
}

func (s *Staking) openPosition(
	caller tierlock.Address,
	userType accounts.UserType,
	duration uint32,
	amount *big.Int,
	useLocking bool,
	token *auth.Token,
	now uint64,
) (positions.ID, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	if !userType.Valid() {
		return 0, errs.Validation("unknown user type")
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, errs.Validation("amount must be positive")
	}
	if err := s.verifier.Consume(caller, OpOpenPosition, OpenParams(userType, duration, amount, useLocking), token, now); err != nil {
		return 0, err
	}

	// period must exist and be enabled
	period, err := s.periodService.Get(duration)
	if err != nil {
		return 0, err
	}
	if period.IsEmpty() {
		return 0, errs.Validation("period not registered")
	}
	if !period.Active {
		return 0, errs.Validation("period disabled")
	}

	// pool-wide cap
	globalCap, err := s.params.Get(tierlock.KeyGlobalStakeCap)
	if err != nil {
		return 0, err
	}
	totalStaked, err := s.statsService.TotalStaked()
	if err != nil {
		return 0, err
	}
	if globalCap.Sign() > 0 && new(big.Int).Add(totalStaked, amount).Cmp(globalCap) > 0 {
		return 0, errs.Validation("pool stake cap exceeded")
	}

	// per-account position limit
	acc, err := s.accountService.GetOrCreate(caller, userType)
	if err != nil {
		return 0, err
	}
	maxPositions, err := s.params.Get(tierlock.KeyMaxActivePositions)
	if err != nil {
		return 0, err
	}
	if maxPositions.Sign() > 0 && uint64(acc.ActivePositions) >= maxPositions.Uint64() {
		return 0, errs.Validation("too many active positions")
	}

	// per-userType minimum
	minKey := tierlock.KeyMinStakePersonal
	if userType == accounts.Institutional {
		minKey = tierlock.KeyMinStakeInstitut
	}
	minStake, err := s.params.Get(minKey)
	if err != nil {
		return 0, err
	}
	if amount.Cmp(minStake) < 0 {
		return 0, errs.Validation("amount below minimum stake")
	}

	// tier-dependent cap on the account's running total. With locking
	// globally disabled every account gets the top-tier cap.
	lockingEnabled, err := s.params.GetBool(tierlock.KeyLockingEnabled)
	if err != nil {
		return 0, err
	}
	lockedBalance, err := s.lockAcct.LockedBalance(caller)
	if err != nil {
		return 0, err
	}

	tier := tiers.NoTier
	capTier := tiers.VIP
	if lockingEnabled {
		if tier, err = s.tierService.Classify(lockedBalance, userType == accounts.Personal); err != nil {
			return 0, err
		}
		capTier = tier
	}
	if capTier != tiers.NoTier {
		capCfg, err := s.tierService.Get(capTier)
		if err != nil {
			return 0, err
		}
		if new(big.Int).Add(acc.TotalStaked, amount).Cmp(capCfg.MaxStake) > 0 {
			return 0, errs.Validation("tier stake cap exceeded")
		}
	}

	if userType == accounts.Institutional && duration < tierlock.MinInstitutionalMonths {
		return 0, errs.Validation("institutional term too short")
	}

	locking := useLocking && lockingEnabled
	if locking && tier == tiers.NoTier {
		return 0, errs.Validation("locked balance below tier minimum")
	}

	// term end-date, computed once at open
	endTs, err := calendar.Add(now, uint64(duration), calendar.Months)
	if err != nil {
		return 0, errs.Arithmetic(err.Error())
	}

	bonusPPM := uint32(0)
	if locking {
		cfg, err := s.tierService.Get(tier)
		if err != nil {
			return 0, err
		}
		bonusPPM = cfg.BonusRatePPM
	}

	// collaborator transfer commits before the position is recorded
	if err := s.stakeAsset.Transfer(caller, s.cfg.Pool, amount); err != nil {
		return 0, errs.Validation("stake transfer failed: " + err.Error())
	}

	id, err := s.positionService.Next()
	if err != nil {
		return 0, err
	}

	lockedAmount := new(big.Int)
	if locking {
		lockedAmount.Set(lockedBalance)
	}
	pos := &positions.Position{
		Owner:           caller,
		Principal:       new(big.Int).Set(amount),
		LockedAmount:    lockedAmount,
		StartTs:         now,
		EndTs:           endTs,
		PeriodDuration:  duration,
		BaseRatePPM:     period.BaseRatePPM,
		BonusRatePPM:    bonusPPM,
		MonthlyInterest: positions.MonthlyInterestOf(amount, period.BaseRatePPM, bonusPPM),
		TierAtOpen:      uint8(tier),
		Locked:          locking,
	}
	if err := s.positionService.Set(id, pos); err != nil {
		return 0, err
	}

	if err := s.accountService.AddStaked(caller, amount); err != nil {
		return 0, err
	}
	if err := s.periodService.AddActive(duration, amount); err != nil {
		return 0, err
	}
	if err := s.statsService.AddStaked(amount); err != nil {
		return 0, err
	}

	if locking {
		if err := s.advancePointer(caller, id, pos); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// advancePointer moves the account's locked contribution onto the new
// position, but only when its end-date is later than the currently
// pointed one.
func (s *Staking) advancePointer(owner tierlock.Address, id positions.ID, pos *positions.Position) error {
	ptr, err := s.accountService.Pointer(owner)
	if err != nil {
		return err
	}

	if !ptr.IsEmpty() {
		current, err := s.positionService.Get(positions.ID(ptr.PositionID))
		if err != nil {
			return err
		}
		if pos.EndTs <= current.EndTs {
			return nil
		}

		// release the previous owner's contribution from its period. A
		// closed owner was already removed from the locked totals at
		// close time.
		if !current.Closed && ptr.LockedAmount.Sign() > 0 {
			if err := s.periodService.SubLocked(current.PeriodDuration, ptr.LockedAmount); err != nil {
				return err
			}
			if err := s.statsService.SubLocked(ptr.LockedAmount); err != nil {
				return err
			}
		}
	}

	if err := s.accountService.SetPointer(owner, &accounts.LockedPointer{
		PositionID:   uint64(id),
		LockedAmount: new(big.Int).Set(pos.LockedAmount),
	}); err != nil {
		return err
	}
	if pos.LockedAmount.Sign() > 0 {
		if err := s.periodService.AddLocked(pos.PeriodDuration, pos.LockedAmount); err != nil {
			return err
		}
		if err := s.statsService.AddLocked(pos.LockedAmount); err != nil {
			return err
		}
	}

	// forward the committed-contribution delta to the external ledger
	delta := new(big.Int).Sub(pos.LockedAmount, ptr.LockedAmount)
	if delta.Sign() != 0 {
		increase := delta.Sign() > 0
		if err := s.lockAcct.UpdateLocked(owner, delta.Abs(delta), increase); err != nil {
			return err
		}
	}
	return s.accountService.SetLocked(owner, pos.LockedAmount)
}
