// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/tierlock"
)

// Counter is a wrapper for a strictly increasing uint64 sequence.
type Counter struct {
	context *Context
	pos     tierlock.Bytes32
}

func NewCounter(context *Context, pos tierlock.Bytes32) *Counter {
	return &Counter{context: context, pos: pos}
}

func (c *Counter) Get() (uint64, error) {
	storage, err := c.context.state.GetStorage(c.context.address, c.pos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

// Next increments the sequence and returns the new value. The first call
// returns 1; zero is reserved as the absent marker.
func (c *Counter) Next() (uint64, error) {
	cur, err := c.Get()
	if err != nil {
		return 0, err
	}
	next := cur + 1
	if next == 0 {
		return 0, errors.New("counter overflow")
	}
	var storage tierlock.Bytes32
	binary.BigEndian.PutUint64(storage[24:], next)
	if err := c.context.state.SetStorage(c.context.address, c.pos, storage); err != nil {
		return 0, err
	}
	return next, nil
}
