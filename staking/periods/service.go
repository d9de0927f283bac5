// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package periods

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/tierlock"
)

var (
	slotPeriods      = slot.NameToSlot("periods")
	slotPeriodIndex  = slot.NameToSlot("periods-index")
	slotPeriodsCount = slot.NameToSlot("periods-count")
)

// Service manages the period catalog.
type Service struct {
	periods *slot.Mapping[durationKey, *Period]
	index   *slot.Mapping[indexKey, uint32]
	count   *slot.Counter
}

func New(sctx *slot.Context) *Service {
	return &Service{
		periods: slot.NewMapping[durationKey, *Period](sctx, slotPeriods),
		index:   slot.NewMapping[indexKey, uint32](sctx, slotPeriodIndex),
		count:   slot.NewCounter(sctx, slotPeriodsCount),
	}
}

// Get returns the period of the given duration, IsEmpty when unregistered.
func (s *Service) Get(duration uint32) (*Period, error) {
	p, err := s.periods.Get(durationKey(duration))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get period")
	}
	return p.normalize(), nil
}

func (s *Service) set(duration uint32, p *Period) error {
	if err := s.periods.Set(durationKey(duration), p); err != nil {
		return errors.Wrap(err, "failed to set period")
	}
	return nil
}

// Add registers a new staking term. Re-adding an existing duration fails,
// as does a base rate below the 1% floor.
func (s *Service) Add(duration uint32, baseRatePPM uint32) error {
	existing, err := s.Get(duration)
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return errs.Validation("period already registered")
	}
	if uint64(baseRatePPM) < tierlock.MinBaseRatePPM {
		return errs.Validation("base rate below minimum")
	}

	seq, err := s.count.Next()
	if err != nil {
		return err
	}
	if err := s.index.Set(indexKey(seq), duration); err != nil {
		return errors.Wrap(err, "failed to set period index")
	}

	return s.set(duration, (&Period{
		DurationMonths: duration,
		BaseRatePPM:    baseRatePPM,
		Active:         true,
		Registered:     true,
	}).normalize())
}

// Update changes the base rate of a registered period.
func (s *Service) Update(duration uint32, baseRatePPM uint32) error {
	p, err := s.Get(duration)
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return errs.Validation("period not registered")
	}
	if uint64(baseRatePPM) < tierlock.MinBaseRatePPM {
		return errs.Validation("base rate below minimum")
	}
	p.BaseRatePPM = baseRatePPM
	return s.set(duration, p)
}

// SetActive flips the enabled flag of a registered period.
func (s *Service) SetActive(duration uint32, active bool) error {
	p, err := s.Get(duration)
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		return errs.Validation("period not registered")
	}
	p.Active = active
	return s.set(duration, p)
}

// List returns registered, non-zero-duration periods in insertion order
// with their live aggregates.
func (s *Service) List() ([]*Period, error) {
	total, err := s.count.Get()
	if err != nil {
		return nil, err
	}
	list := make([]*Period, 0, total)
	for seq := uint64(1); seq <= total; seq++ {
		duration, err := s.index.Get(indexKey(seq))
		if err != nil {
			return nil, errors.Wrap(err, "failed to get period index")
		}
		if duration == 0 {
			continue
		}
		p, err := s.Get(duration)
		if err != nil {
			return nil, err
		}
		if p.IsEmpty() {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

// AddActive accrues a newly opened position into the period aggregates.
func (s *Service) AddActive(duration uint32, amount *big.Int) error {
	p, err := s.Get(duration)
	if err != nil {
		return err
	}
	p.ActiveCount++
	p.ActiveAmount = new(big.Int).Add(p.ActiveAmount, amount)
	return s.set(duration, p)
}

// RemoveActive removes a closed position from the period aggregates.
func (s *Service) RemoveActive(duration uint32, amount *big.Int) error {
	p, err := s.Get(duration)
	if err != nil {
		return err
	}
	if p.ActiveCount == 0 {
		return errors.New("period active count underflow")
	}
	next := new(big.Int).Sub(p.ActiveAmount, amount)
	if next.Sign() < 0 {
		return errors.New("period active amount underflow")
	}
	p.ActiveCount--
	p.ActiveAmount = next
	return s.set(duration, p)
}

// AddLocked accrues a locked contribution owned by a position of this period.
func (s *Service) AddLocked(duration uint32, amount *big.Int) error {
	p, err := s.Get(duration)
	if err != nil {
		return err
	}
	p.LockedAmount = new(big.Int).Add(p.LockedAmount, amount)
	return s.set(duration, p)
}

// SubLocked removes a locked contribution from the period aggregates.
func (s *Service) SubLocked(duration uint32, amount *big.Int) error {
	p, err := s.Get(duration)
	if err != nil {
		return err
	}
	next := new(big.Int).Sub(p.LockedAmount, amount)
	if next.Sign() < 0 {
		return errors.New("period locked amount underflow")
	}
	p.LockedAmount = next
	return s.set(duration, p)
}
