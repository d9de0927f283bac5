// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tierlock/tierlock/staking/accounts"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/tierlock"
)

// Operation names bound into authorization tokens.
const (
	OpOpenPosition    = "open-position"
	OpRequestClose    = "request-close"
	OpForceClose      = "force-close"
	OpSettlePrincipal = "settle-principal"
	OpSettleInterest  = "settle-interest"
)

// AssetTransfer moves the staking or locking asset between accounts.
// Failure aborts the calling operation.
type AssetTransfer interface {
	Transfer(from, to tierlock.Address, amount *big.Int) error
}

// LockAccounting is the external ledger tracking locked governance-asset
// balances per account. LockedBalance feeds tier classification;
// UpdateLocked reports committed-contribution deltas as positions take
// over or release a contribution.
type LockAccounting interface {
	UpdateLocked(account tierlock.Address, amount *big.Int, increase bool) error
	LockedBalance(account tierlock.Address) (*big.Int, error)
}

// EventRecorder observes committed lifecycle transitions.
type EventRecorder interface {
	RecordStakeEvent(op string, account tierlock.Address, position uint64, amount *big.Int, ts uint64) error
}

// OpenParams is the canonical parameter encoding an open-position token
// signs over.
func OpenParams(userType accounts.UserType, duration uint32, amount *big.Int, useLocking bool) []byte {
	b, _ := rlp.EncodeToBytes([]any{uint64(userType), uint64(duration), amount, useLocking})
	return b
}

// PositionParams is the canonical parameter encoding a close or
// settle-principal token signs over.
func PositionParams(id positions.ID) []byte {
	b, _ := rlp.EncodeToBytes(uint64(id))
	return b
}

// InterestParams is the canonical parameter encoding a settle-interest
// token signs over.
func InterestParams(id positions.ID, months []uint32, amounts []*big.Int) []byte {
	m := make([]uint64, len(months))
	for i, month := range months {
		m[i] = uint64(month)
	}
	b, _ := rlp.EncodeToBytes([]any{uint64(id), m, amounts})
	return b
}
