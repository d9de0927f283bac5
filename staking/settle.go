// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"time"

	"github.com/tierlock/tierlock/staking/auth"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/tierlock"
)

// SettlePrincipal moves a closed position to Settled and pays the
// principal back to the caller.
func (s *Staking) SettlePrincipal(caller tierlock.Address, id positions.ID, token *auth.Token, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer metricDuration(time.Now())

	err := s.settlePrincipal(caller, id, token, now)
	if err != nil {
		countFailure(OpSettlePrincipal, err)
		logger.Info("settle principal failed", "caller", caller, "id", id, "error", err)
		return err
	}

	metricPrincipalSettled().Add(1)
	logger.Info("settled principal", "caller", caller, "id", id)
	return nil
}

func (s *Staking) settlePrincipal(caller tierlock.Address, id positions.ID, token *auth.Token, now uint64) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.verifier.Consume(caller, OpSettlePrincipal, PositionParams(id), token, now); err != nil {
		return err
	}

	pos, err := s.getOwned(caller, id)
	if err != nil {
		return err
	}
	if !pos.Closed {
		return errs.State("position not closed")
	}
	if pos.Settled {
		return errs.State("position already settled")
	}

	ptr, err := s.accountService.Pointer(caller)
	if err != nil {
		return err
	}
	ownsPointer := !ptr.IsEmpty() && ptr.PositionID == uint64(id)

	if err := s.stakeAsset.Transfer(s.cfg.Pool, caller, pos.Principal); err != nil {
		return errs.Validation("principal transfer failed: " + err.Error())
	}
	if ownsPointer && ptr.LockedAmount.Sign() > 0 {
		if err := s.lockAsset.Transfer(s.cfg.Pool, caller, ptr.LockedAmount); err != nil {
			return errs.Validation("locked transfer failed: " + err.Error())
		}
		if err := s.lockAcct.UpdateLocked(caller, ptr.LockedAmount, false); err != nil {
			return errs.Validation("lock accounting update failed: " + err.Error())
		}
	}

	pos.SettleTs = now
	pos.Settled = true
	if err := s.positionService.Set(id, pos); err != nil {
		return err
	}
	if err := s.statsService.AddWithdrawn(pos.Principal); err != nil {
		return err
	}

	if ownsPointer {
		ptr.LockedAmount = new(big.Int)
		if err := s.accountService.SetPointer(caller, ptr); err != nil {
			return err
		}
		if err := s.accountService.SetLocked(caller, new(big.Int)); err != nil {
			return err
		}
	}

	s.record(OpSettlePrincipal, caller, id, pos.Principal, now)
	return nil
}

// SettleInterest records monthly interest claims against a position and
// pays the accumulated amount in one transfer. Claims are permanent; a
// month can never be settled twice.
func (s *Staking) SettleInterest(caller tierlock.Address, id positions.ID, months []uint32, amounts []*big.Int, token *auth.Token, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer metricDuration(time.Now())

	payout, err := s.settleInterest(caller, id, months, amounts, token, now)
	if err != nil {
		countFailure(OpSettleInterest, err)
		logger.Info("settle interest failed", "caller", caller, "id", id, "error", err)
		return err
	}

	metricInterestSettled().Add(1)
	logger.Info("settled interest", "caller", caller, "id", id, "payout", payout)
	return nil
}

func (s *Staking) settleInterest(caller tierlock.Address, id positions.ID, months []uint32, amounts []*big.Int, token *auth.Token, now uint64) (*big.Int, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if err := s.verifier.Consume(caller, OpSettleInterest, InterestParams(id, months, amounts), token, now); err != nil {
		return nil, err
	}

	if len(months) == 0 {
		return nil, errs.Validation("no months given")
	}
	if len(months) != len(amounts) {
		return nil, errs.Validation("months and amounts length mismatch")
	}

	pos, err := s.getOwned(caller, id)
	if err != nil {
		return nil, err
	}

	// validate every entry before writing any claim
	seen := make(map[uint32]bool, len(months))
	payout := new(big.Int)
	for i, month := range months {
		amount := amounts[i]
		if amount == nil || amount.Sign() <= 0 {
			return nil, errs.Validation("claim amount must be positive")
		}
		if amount.Cmp(pos.MonthlyInterest) > 0 {
			return nil, errs.Validation("claim exceeds monthly interest")
		}
		if seen[month] {
			return nil, errs.Validation("duplicate month in request")
		}
		seen[month] = true

		claim, err := s.positionService.Claim(caller, id, month)
		if err != nil {
			return nil, err
		}
		if !claim.IsEmpty() {
			return nil, errs.State("interest already claimed for month")
		}
		payout.Add(payout, amount)
	}

	if err := s.stakeAsset.Transfer(s.cfg.Pool, caller, payout); err != nil {
		return nil, errs.Validation("interest transfer failed: " + err.Error())
	}

	for i, month := range months {
		claim := &positions.InterestClaim{
			Amount:    new(big.Int).Set(amounts[i]),
			Timestamp: now,
		}
		if err := s.positionService.SetClaim(caller, id, month, claim); err != nil {
			return nil, err
		}
	}
	if err := s.statsService.AddDistributed(payout); err != nil {
		return nil, err
	}

	s.record(OpSettleInterest, caller, id, payout, now)
	return payout, nil
}
