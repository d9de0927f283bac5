// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package poolstats manages pool-wide staking totals.
//
// The totals are not independently incremented globals: every lifecycle
// transition updates them in the same atomic step as the position change,
// so with no in-flight operation they always reconcile with the sum of the
// individual positions.
package poolstats

import (
	"math/big"

	"github.com/tierlock/tierlock/slot"
)

var (
	slotTotalStaked        = slot.NameToSlot("total-staked")
	slotTotalLocked        = slot.NameToSlot("total-locked")
	slotActivePositions    = slot.NameToSlot("total-active-positions")
	slotWithdrawnPrincipal = slot.NameToSlot("total-withdrawn-principal")
	slotDistributed        = slot.NameToSlot("total-distributed-interest")
)

// Metrics is a snapshot of the pool-wide totals.
type Metrics struct {
	TotalStaked              *big.Int
	TotalLocked              *big.Int
	TotalActivePositions     *big.Int
	TotalWithdrawnPrincipal  *big.Int
	TotalDistributedInterest *big.Int
}

// Service manages the pool-wide totals.
type Service struct {
	totalStaked     *slot.Uint256
	totalLocked     *slot.Uint256
	activePositions *slot.Uint256
	withdrawn       *slot.Uint256
	distributed     *slot.Uint256
}

func New(sctx *slot.Context) *Service {
	return &Service{
		totalStaked:     slot.NewUint256(sctx, slotTotalStaked),
		totalLocked:     slot.NewUint256(sctx, slotTotalLocked),
		activePositions: slot.NewUint256(sctx, slotActivePositions),
		withdrawn:       slot.NewUint256(sctx, slotWithdrawnPrincipal),
		distributed:     slot.NewUint256(sctx, slotDistributed),
	}
}

// Get returns a snapshot of all pool totals.
func (s *Service) Get() (*Metrics, error) {
	staked, err := s.totalStaked.Get()
	if err != nil {
		return nil, err
	}
	locked, err := s.totalLocked.Get()
	if err != nil {
		return nil, err
	}
	active, err := s.activePositions.Get()
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.withdrawn.Get()
	if err != nil {
		return nil, err
	}
	distributed, err := s.distributed.Get()
	if err != nil {
		return nil, err
	}
	return &Metrics{
		TotalStaked:              staked,
		TotalLocked:              locked,
		TotalActivePositions:     active,
		TotalWithdrawnPrincipal:  withdrawn,
		TotalDistributedInterest: distributed,
	}, nil
}

// TotalStaked returns the pool-wide staked principal.
func (s *Service) TotalStaked() (*big.Int, error) {
	return s.totalStaked.Get()
}

// AddStaked accrues an opened position into the pool totals.
func (s *Service) AddStaked(amount *big.Int) error {
	if err := s.totalStaked.Add(amount); err != nil {
		return err
	}
	return s.activePositions.Add(big.NewInt(1))
}

// RemoveStaked removes a closed position from the pool totals.
func (s *Service) RemoveStaked(amount *big.Int) error {
	if err := s.totalStaked.Sub(amount); err != nil {
		return err
	}
	return s.activePositions.Sub(big.NewInt(1))
}

// AddLocked accrues a locked contribution into the pool totals.
func (s *Service) AddLocked(amount *big.Int) error {
	return s.totalLocked.Add(amount)
}

// SubLocked removes a locked contribution from the pool totals.
func (s *Service) SubLocked(amount *big.Int) error {
	return s.totalLocked.Sub(amount)
}

// AddWithdrawn accrues settled principal into the pool totals.
func (s *Service) AddWithdrawn(amount *big.Int) error {
	return s.withdrawn.Add(amount)
}

// AddDistributed accrues paid interest into the pool totals.
func (s *Service) AddDistributed(amount *big.Int) error {
	return s.distributed.Add(amount)
}
