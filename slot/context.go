// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
)

// Context binds typed storage cells to a storage namespace.
type Context struct {
	address tierlock.Address
	state   *state.State
}

func NewContext(address tierlock.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

// NameToSlot derives a storage slot from a human readable name.
func NameToSlot(name string) tierlock.Bytes32 {
	return tierlock.BytesToBytes32([]byte(name))
}
