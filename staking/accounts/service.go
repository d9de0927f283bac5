// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/tierlock"
)

var (
	slotAccounts = slot.NameToSlot("accounts")
	slotPointers = slot.NameToSlot("locked-pointers")
)

// Service manages account records and locked-position pointers.
type Service struct {
	accounts *slot.Mapping[tierlock.Address, *Account]
	pointers *slot.Mapping[tierlock.Address, *LockedPointer]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		accounts: slot.NewMapping[tierlock.Address, *Account](sctx, slotAccounts),
		pointers: slot.NewMapping[tierlock.Address, *LockedPointer](sctx, slotPointers),
	}
}

// Get returns the account record, IsEmpty when never created.
func (s *Service) Get(addr tierlock.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc.normalize(), nil
}

// GetOrCreate returns the account record, lazily creating it with the
// given user type.
func (s *Service) GetOrCreate(addr tierlock.Address, userType UserType) (*Account, error) {
	acc, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	if acc.IsEmpty() {
		acc = (&Account{UserType: userType, Created: true}).normalize()
		if err := s.Set(addr, acc); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Set stores the account record.
func (s *Service) Set(addr tierlock.Address, acc *Account) error {
	if err := s.accounts.Set(addr, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// Pointer returns the account's locked-position pointer.
func (s *Service) Pointer(addr tierlock.Address) (*LockedPointer, error) {
	ptr, err := s.pointers.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked pointer")
	}
	return ptr.normalize(), nil
}

// SetPointer stores the account's locked-position pointer.
func (s *Service) SetPointer(addr tierlock.Address, ptr *LockedPointer) error {
	if err := s.pointers.Set(addr, ptr); err != nil {
		return errors.Wrap(err, "failed to set locked pointer")
	}
	return nil
}

// AddStaked accrues an opened position into the account aggregates.
func (s *Service) AddStaked(addr tierlock.Address, amount *big.Int) error {
	acc, err := s.Get(addr)
	if err != nil {
		return err
	}
	acc.TotalStaked = new(big.Int).Add(acc.TotalStaked, amount)
	acc.ActivePositions++
	return s.Set(addr, acc)
}

// RemoveStaked removes a closed position from the account aggregates.
func (s *Service) RemoveStaked(addr tierlock.Address, amount *big.Int) error {
	acc, err := s.Get(addr)
	if err != nil {
		return err
	}
	if acc.ActivePositions == 0 {
		return errors.New("account active positions underflow")
	}
	next := new(big.Int).Sub(acc.TotalStaked, amount)
	if next.Sign() < 0 {
		return errors.New("account staked total underflow")
	}
	acc.ActivePositions--
	acc.TotalStaked = next
	return s.Set(addr, acc)
}

// SetLocked stores the account's locked contribution total.
func (s *Service) SetLocked(addr tierlock.Address, amount *big.Int) error {
	acc, err := s.Get(addr)
	if err != nil {
		return err
	}
	acc.TotalLocked = new(big.Int).Set(amount)
	return s.Set(addr, acc)
}
