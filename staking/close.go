// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"time"

	"github.com/tierlock/tierlock/staking/auth"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/tierlock"
)

// RequestClose moves the caller's position from Active to Closed.
func (s *Staking) RequestClose(caller tierlock.Address, id positions.ID, token *auth.Token, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer metricDuration(time.Now())

	err := s.requestClose(caller, id, token, now)
	if err != nil {
		countFailure(OpRequestClose, err)
		logger.Info("close request failed", "caller", caller, "id", id, "error", err)
		return err
	}

	metricPositionsClosed().Add(1)
	metricActivePositions().Add(-1)
	logger.Info("closed position", "caller", caller, "id", id)
	return nil
}

func (s *Staking) requestClose(caller tierlock.Address, id positions.ID, token *auth.Token, now uint64) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.verifier.Consume(caller, OpRequestClose, PositionParams(id), token, now); err != nil {
		return err
	}

	pos, err := s.getOwned(caller, id)
	if err != nil {
		return err
	}
	if err := s.closePosition(caller, id, pos, now); err != nil {
		return err
	}
	s.record(OpRequestClose, caller, id, pos.Principal, now)
	return nil
}

// ForceClose is the privileged close path. No token is consumed; the
// position is addressed on behalf of its owner.
func (s *Staking) ForceClose(caller, owner tierlock.Address, id positions.ID, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer metricDuration(time.Now())

	err := s.forceClose(caller, owner, id, now)
	if err != nil {
		logger.Info("force close failed", "owner", owner, "id", id, "error", err)
		return err
	}

	metricPositionsClosed().Add(1)
	metricActivePositions().Add(-1)
	logger.Info("force closed position", "owner", owner, "id", id)
	return nil
}

func (s *Staking) forceClose(caller, owner tierlock.Address, id positions.ID, now uint64) error {
	if err := s.guardAdmin(caller); err != nil {
		return err
	}
	pos, err := s.getOwned(owner, id)
	if err != nil {
		return err
	}
	if err := s.closePosition(owner, id, pos, now); err != nil {
		return err
	}
	s.record(OpForceClose, owner, id, pos.Principal, now)
	return nil
}

// closePosition applies the shared Active->Closed effect. The principal
// leaves every active aggregate; the pointer's locked contribution leaves
// the pool/period locked totals but stays on the account until settlement.
func (s *Staking) closePosition(owner tierlock.Address, id positions.ID, pos *positions.Position, now uint64) error {
	if pos.Closed {
		return errs.State("position already closed")
	}

	pos.CloseRequestTs = now
	pos.Closed = true
	if err := s.positionService.Set(id, pos); err != nil {
		return err
	}

	if err := s.accountService.RemoveStaked(owner, pos.Principal); err != nil {
		return err
	}
	if err := s.periodService.RemoveActive(pos.PeriodDuration, pos.Principal); err != nil {
		return err
	}
	if err := s.statsService.RemoveStaked(pos.Principal); err != nil {
		return err
	}

	ptr, err := s.accountService.Pointer(owner)
	if err != nil {
		return err
	}
	if !ptr.IsEmpty() && ptr.PositionID == uint64(id) && ptr.LockedAmount.Sign() > 0 {
		if err := s.periodService.SubLocked(pos.PeriodDuration, ptr.LockedAmount); err != nil {
			return err
		}
		if err := s.statsService.SubLocked(ptr.LockedAmount); err != nil {
			return err
		}
	}
	return nil
}
