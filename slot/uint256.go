// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/tierlock"
)

// Uint256 is a wrapper for storage and retrieval of an uint256.
// If the provided uint exceeds 256 bits, it will be truncated to fit into tierlock.Bytes32.
type Uint256 struct {
	context *Context
	pos     tierlock.Bytes32
}

func NewUint256(context *Context, pos tierlock.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("negative value")
	}
	storage := tierlock.BytesToBytes32(value.Bytes())
	return u.context.state.SetStorage(u.context.address, u.pos, storage)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	return u.Set(storage)
}

// Sub subtracts value, failing on underflow so aggregate totals can never
// drift below the sum of their parts.
func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Sub(storage, value)
	if storage.Sign() < 0 {
		return errors.New("uint256 underflow")
	}
	return u.Set(storage)
}
