// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/tierlock"
)

var (
	slotPositions  = slot.NameToSlot("positions")
	slotPositionID = slot.NameToSlot("positions-counter")
	slotClaims     = slot.NameToSlot("interest-claims")
)

// Service manages the position store.
type Service struct {
	positions *slot.Mapping[ID, *Position]
	counter   *slot.Counter
	claims    *slot.Mapping[tierlock.Bytes32, *InterestClaim]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		positions: slot.NewMapping[ID, *Position](sctx, slotPositions),
		counter:   slot.NewCounter(sctx, slotPositionID),
		claims:    slot.NewMapping[tierlock.Bytes32, *InterestClaim](sctx, slotClaims),
	}
}

// Next assigns the next global position id.
func (s *Service) Next() (ID, error) {
	id, err := s.counter.Next()
	if err != nil {
		return 0, errors.Wrap(err, "failed to assign position id")
	}
	return ID(id), nil
}

// Get returns the position, IsEmpty when the id was never assigned.
func (s *Service) Get(id ID) (*Position, error) {
	p, err := s.positions.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if p.IsEmpty() {
		return p, nil
	}
	return p.normalize(), nil
}

// Set stores the position.
func (s *Service) Set(id ID, p *Position) error {
	if err := s.positions.Set(id, p); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}

func claimKey(owner tierlock.Address, id ID, month uint32) tierlock.Bytes32 {
	monthBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(monthBytes, month)
	return tierlock.Blake2b([]byte("interest-claim"), owner.Bytes(), id.Bytes(), monthBytes)
}

// Claim returns the interest claim marker for (owner, position, month).
func (s *Service) Claim(owner tierlock.Address, id ID, month uint32) (*InterestClaim, error) {
	c, err := s.claims.Get(claimKey(owner, id, month))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get interest claim")
	}
	return c, nil
}

// SetClaim permanently records an interest claim for (owner, position, month).
func (s *Service) SetClaim(owner tierlock.Address, id ID, month uint32, claim *InterestClaim) error {
	if err := s.claims.Set(claimKey(owner, id, month), claim); err != nil {
		return errors.Wrap(err, "failed to set interest claim")
	}
	return nil
}
