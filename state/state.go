// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/tierlock/tierlock/kv"
	"github.com/tierlock/tierlock/tierlock"
)

const storageKeyPrefix = "s"

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// State manages the ledger state.
// Storage is scoped per owner address, so each subsystem claims its own
// namespace the way built-in contracts claim a contract address.
type State struct {
	store kv.GetPutter
}

// New creates a state object backed by the given store.
func New(store kv.GetPutter) *State {
	return &State{store: store}
}

func storageKey(addr tierlock.Address, key tierlock.Bytes32) []byte {
	k := make([]byte, 0, len(storageKeyPrefix)+tierlock.AddressLength+32)
	k = append(k, storageKeyPrefix...)
	k = append(k, addr.Bytes()...)
	return append(k, key.Bytes()...)
}

// GetRawStorage returns the raw bytes stored at (addr, key).
// Missing entries yield a nil slice, not an error.
func (s *State) GetRawStorage(addr tierlock.Address, key tierlock.Bytes32) ([]byte, error) {
	raw, err := s.store.Get(storageKey(addr, key))
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage stores raw bytes at (addr, key). Empty raw deletes the entry.
func (s *State) SetRawStorage(addr tierlock.Address, key tierlock.Bytes32, raw []byte) error {
	if len(raw) == 0 {
		if err := s.store.Delete(storageKey(addr, key)); err != nil {
			return &Error{err}
		}
		return nil
	}
	if err := s.store.Put(storageKey(addr, key), raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetStorage returns storage value for the given key.
func (s *State) GetStorage(addr tierlock.Address, key tierlock.Bytes32) (tierlock.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return tierlock.Bytes32{}, err
	}
	return tierlock.BytesToBytes32(raw), nil
}

// SetStorage sets storage value for the given key.
func (s *State) SetStorage(addr tierlock.Address, key, value tierlock.Bytes32) error {
	if value.IsZero() {
		return s.SetRawStorage(addr, key, nil)
	}
	return s.SetRawStorage(addr, key, value.Bytes())
}

// DecodeStorage gets and decodes storage value.
func (s *State) DecodeStorage(addr tierlock.Address, key tierlock.Bytes32, decode func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := decode(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// EncodeStorage encodes and sets storage value.
func (s *State) EncodeStorage(addr tierlock.Address, key tierlock.Bytes32, encode func() ([]byte, error)) error {
	raw, err := encode()
	if err != nil {
		return &Error{err}
	}
	return s.SetRawStorage(addr, key, raw)
}
