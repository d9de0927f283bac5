// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package periods catalogs the staking terms offered by the ledger.
package periods

import (
	"encoding/binary"
	"math/big"
)

// Period is one staking term. Duration is immutable once added; the rate
// and active flag are governance-mutable. The aggregates are maintained
// incrementally by the lifecycle engine.
type Period struct {
	DurationMonths uint32
	BaseRatePPM    uint32
	Active         bool
	Registered     bool

	ActiveCount  uint32
	ActiveAmount *big.Int
	LockedAmount *big.Int
}

// IsEmpty returns true when the duration was never registered.
func (p *Period) IsEmpty() bool {
	return p == nil || !p.Registered
}

// normalize replaces nil aggregates with zero so callers can do arithmetic.
func (p *Period) normalize() *Period {
	if p.ActiveAmount == nil {
		p.ActiveAmount = new(big.Int)
	}
	if p.LockedAmount == nil {
		p.LockedAmount = new(big.Int)
	}
	return p
}

// durationKey adapts a term duration into a storage mapping key.
type durationKey uint32

func (k durationKey) Bytes() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(k))
	return b
}

// indexKey adapts an insertion-order index into a storage mapping key.
type indexKey uint64

func (k indexKey) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k))
	return b
}
