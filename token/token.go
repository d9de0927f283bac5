// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is a minimal state-backed balance ledger for the staking
// and locking assets.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
)

var (
	slotBalances = slot.NameToSlot("balances")
	slotSupply   = slot.NameToSlot("total-supply")
)

// Token keeps per-account balances of one asset under its own storage
// address.
type Token struct {
	balances *slot.Mapping[tierlock.Address, *big.Int]
	supply   *slot.Uint256
}

// New creates a ledger rooted at the given storage address.
func New(addr tierlock.Address, st *state.State) *Token {
	sctx := slot.NewContext(addr, st)
	return &Token{
		balances: slot.NewMapping[tierlock.Address, *big.Int](sctx, slotBalances),
		supply:   slot.NewUint256(sctx, slotSupply),
	}
}

// BalanceOf returns the account's balance, zero for unknown accounts.
func (t *Token) BalanceOf(addr tierlock.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// TotalSupply returns the sum of all minted balances.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

// Mint credits an account out of thin air, growing the supply.
func (t *Token) Mint(addr tierlock.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("mint amount must be positive")
	}
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if err := t.balances.Set(addr, new(big.Int).Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return t.supply.Add(amount)
}

// Transfer moves amount between accounts. It implements the asset hook of
// the lifecycle engine.
func (t *Token) Transfer(from, to tierlock.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("transfer amount must not be negative")
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errors.New("insufficient balance")
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := t.balances.Set(to, new(big.Int).Add(toBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
