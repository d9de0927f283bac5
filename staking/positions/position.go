// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package positions stores staking positions and their interest-claim
// markers.
package positions

import (
	"encoding/binary"
	"math/big"

	"github.com/tierlock/tierlock/tierlock"
)

// ID is the global strictly-increasing position id, shared across accounts.
// Zero is never assigned.
type ID uint64

// Bytes returns the storage key form of the id.
func (id ID) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// Position is one staking deposit. The financial terms are fixed at
// creation; only the timestamps and lifecycle flags mutate afterwards.
type Position struct {
	Owner        tierlock.Address
	Principal    *big.Int
	LockedAmount *big.Int

	StartTs        uint64
	EndTs          uint64
	CloseRequestTs uint64
	SettleTs       uint64

	PeriodDuration  uint32
	BaseRatePPM     uint32
	BonusRatePPM    uint32
	MonthlyInterest *big.Int
	TierAtOpen      uint8

	Locked  bool
	Closed  bool
	Settled bool
}

// IsEmpty returns true when the id was never assigned.
func (p *Position) IsEmpty() bool {
	return p == nil || p.Principal == nil
}

func (p *Position) normalize() *Position {
	if p.Principal == nil {
		p.Principal = new(big.Int)
	}
	if p.LockedAmount == nil {
		p.LockedAmount = new(big.Int)
	}
	if p.MonthlyInterest == nil {
		p.MonthlyInterest = new(big.Int)
	}
	return p
}

// MonthlyInterestOf computes the fixed monthly interest of a position:
// the yearly interest at (base+bonus) PPM, floored, split into 12 equal
// monthly payments, floored again.
func MonthlyInterestOf(principal *big.Int, baseRatePPM, bonusRatePPM uint32) *big.Int {
	yearly := new(big.Int).Mul(principal, big.NewInt(int64(baseRatePPM)+int64(bonusRatePPM)))
	yearly.Div(yearly, new(big.Int).SetUint64(tierlock.RatePPMDenominator))
	return yearly.Div(yearly, new(big.Int).SetUint64(tierlock.MonthsPerYear))
}

// InterestClaim is the permanent claim marker for one (position, month).
// Presence (non-zero Timestamp) means the month was paid out, ever.
type InterestClaim struct {
	Amount    *big.Int
	Timestamp uint64
}

// IsEmpty returns true when the month was never claimed.
func (c *InterestClaim) IsEmpty() bool {
	return c == nil || c.Timestamp == 0
}
