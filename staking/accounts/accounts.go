// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts keeps per-account running totals and the locked-position
// pointer.
package accounts

import "math/big"

// UserType distinguishes the two account classes of the ledger.
type UserType uint8

const (
	Personal UserType = iota
	Institutional
)

// String implements the stringer interface.
func (t UserType) String() string {
	switch t {
	case Personal:
		return "personal"
	case Institutional:
		return "institutional"
	}
	return "unknown"
}

// Valid reports whether t names a known account class.
func (t UserType) Valid() bool {
	return t == Personal || t == Institutional
}

// Account is the per-account aggregate record. Created lazily on the first
// position, never deleted.
type Account struct {
	UserType        UserType
	TotalStaked     *big.Int
	TotalLocked     *big.Int
	ActivePositions uint32
	Created         bool
}

// IsEmpty returns true when the account was never created.
func (a *Account) IsEmpty() bool {
	return a == nil || !a.Created
}

func (a *Account) normalize() *Account {
	if a.TotalStaked == nil {
		a.TotalStaked = new(big.Int)
	}
	if a.TotalLocked == nil {
		a.TotalLocked = new(big.Int)
	}
	return a
}

// LockedPointer marks the one open position owning the account's locked
// contribution. A zero PositionID means no position owns a contribution.
type LockedPointer struct {
	PositionID   uint64
	LockedAmount *big.Int
}

// IsEmpty returns true when no position owns the account's locked contribution.
func (p *LockedPointer) IsEmpty() bool {
	return p == nil || p.PositionID == 0
}

func (p *LockedPointer) normalize() *LockedPointer {
	if p.LockedAmount == nil {
		p.LockedAmount = new(big.Int)
	}
	return p
}
