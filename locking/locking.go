// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package locking tracks per-account locked governance-asset balances.
// The lifecycle engine reads the deposit balance for tier classification
// and reports committed-contribution deltas as positions take over or
// release a contribution. The two quantities are kept separately: a
// commitment does not change the deposit it is carved out of.
package locking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
)

var (
	slotLocked         = slot.NameToSlot("locked-balances")
	slotCommitted      = slot.NameToSlot("committed-balances")
	slotTotalLocked    = slot.NameToSlot("total-locked")
	slotTotalCommitted = slot.NameToSlot("total-committed")
)

// Ledger is the lock-accounting collaborator of the lifecycle engine.
type Ledger struct {
	locked         *slot.Mapping[tierlock.Address, *big.Int]
	committed      *slot.Mapping[tierlock.Address, *big.Int]
	total          *slot.Uint256
	totalCommitted *slot.Uint256
}

func New(addr tierlock.Address, st *state.State) *Ledger {
	sctx := slot.NewContext(addr, st)
	return &Ledger{
		locked:         slot.NewMapping[tierlock.Address, *big.Int](sctx, slotLocked),
		committed:      slot.NewMapping[tierlock.Address, *big.Int](sctx, slotCommitted),
		total:          slot.NewUint256(sctx, slotTotalLocked),
		totalCommitted: slot.NewUint256(sctx, slotTotalCommitted),
	}
}

// LockedBalance returns the account's locked deposit, zero when unknown.
func (l *Ledger) LockedBalance(account tierlock.Address) (*big.Int, error) {
	bal, err := l.locked.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// Lock credits an account's locked deposit.
func (l *Ledger) Lock(account tierlock.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("lock amount must be positive")
	}
	bal, err := l.LockedBalance(account)
	if err != nil {
		return err
	}
	if err := l.total.Add(amount); err != nil {
		return err
	}
	if err := l.locked.Set(account, new(big.Int).Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set locked balance")
	}
	return nil
}

// CommittedBalance returns the part of the account's deposit currently
// owned by a staking position.
func (l *Ledger) CommittedBalance(account tierlock.Address) (*big.Int, error) {
	bal, err := l.committed.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get committed balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// UpdateLocked adjusts an account's committed contribution up or down.
func (l *Ledger) UpdateLocked(account tierlock.Address, amount *big.Int, increase bool) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("amount must not be negative")
	}
	bal, err := l.CommittedBalance(account)
	if err != nil {
		return err
	}
	if increase {
		bal = new(big.Int).Add(bal, amount)
		if err := l.totalCommitted.Add(amount); err != nil {
			return err
		}
	} else {
		bal = new(big.Int).Sub(bal, amount)
		if bal.Sign() < 0 {
			return errors.New("committed balance underflow")
		}
		if err := l.totalCommitted.Sub(amount); err != nil {
			return err
		}
	}
	if err := l.committed.Set(account, bal); err != nil {
		return errors.Wrap(err, "failed to set committed balance")
	}
	return nil
}

// TotalLocked returns the sum of deposits over all accounts.
func (l *Ledger) TotalLocked() (*big.Int, error) {
	return l.total.Get()
}

// TotalCommitted returns the sum of committed contributions over all
// accounts.
func (l *Ledger) TotalCommitted() (*big.Int, error) {
	return l.totalCommitted.Get()
}
