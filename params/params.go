// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
)

// Params stores process-wide governance parameters.
type Params struct {
	context *slot.Context
}

func New(addr tierlock.Address, state *state.State) *Params {
	return &Params{context: slot.NewContext(addr, state)}
}

// Get native way to get param.
func (p *Params) Get(key tierlock.Bytes32) (*big.Int, error) {
	return slot.NewUint256(p.context, key).Get()
}

// Set native way to set param.
func (p *Params) Set(key tierlock.Bytes32, value *big.Int) error {
	return slot.NewUint256(p.context, key).Set(value)
}

// GetBool reads a 0/1 valued param.
func (p *Params) GetBool(key tierlock.Bytes32) (bool, error) {
	v, err := p.Get(key)
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

// SetBool stores a 0/1 valued param.
func (p *Params) SetBool(key tierlock.Bytes32, value bool) error {
	v := big.NewInt(0)
	if value {
		v = big.NewInt(1)
	}
	return p.Set(key, v)
}
