// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calendar

import "github.com/pkg/errors"

// Unit of a calendar offset.
type Unit uint8

const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Months
	Years
)

// String implements the stringer interface.
func (u Unit) String() string {
	switch u {
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	case Months:
		return "months"
	case Years:
		return "years"
	}
	return "unknown"
}

// Add offsets the timestamp forward by n units.
// Fails unless the result is ≥ the input.
func Add(sec uint64, n uint64, unit Unit) (uint64, error) {
	result, err := offset(sec, n, unit, true)
	if err != nil {
		return 0, err
	}
	if result < sec {
		return 0, errors.New("calendar add overflow")
	}
	return result, nil
}

// Sub offsets the timestamp backward by n units.
// Fails unless the result is ≤ the input.
func Sub(sec uint64, n uint64, unit Unit) (uint64, error) {
	result, err := offset(sec, n, unit, false)
	if err != nil {
		return 0, err
	}
	if result > sec {
		return 0, errors.New("calendar sub underflow")
	}
	return result, nil
}

func offset(sec uint64, n uint64, unit Unit, add bool) (uint64, error) {
	var span uint64
	switch unit {
	case Seconds:
		span = 1
	case Minutes:
		span = secondsPerMinute
	case Hours:
		span = secondsPerHour
	case Days:
		span = secondsPerDay
	case Months, Years:
		return offsetMonths(sec, n, unit, add)
	default:
		return 0, errors.New("unknown calendar unit")
	}

	if n > 0 && span > ^uint64(0)/n {
		return 0, errors.New("calendar offset overflow")
	}
	delta := n * span
	if add {
		return sec + delta, nil
	}
	if delta > sec {
		return 0, errors.New("calendar sub underflow")
	}
	return sec - delta, nil
}

// offsetMonths walks the broken-down date by whole months, clamping the day
// to the last valid day of the target month. Jan 31 + 1 month lands on
// Feb 28 (29 in leap years), never Mar 3.
func offsetMonths(sec uint64, n uint64, unit Unit, add bool) (uint64, error) {
	d, err := FromUnix(sec)
	if err != nil {
		return 0, err
	}

	months := int64(n)
	if unit == Years {
		if n > (1<<31)/12 {
			return 0, errors.New("calendar offset overflow")
		}
		months = int64(n) * 12
	}
	if months > 1<<31 {
		return 0, errors.New("calendar offset overflow")
	}
	if !add {
		months = -months
	}

	total := int64(d.Year)*12 + int64(d.Month) - 1 + months
	if total < 0 {
		return 0, errors.New("calendar sub underflow")
	}
	d.Year = uint32(total / 12)
	d.Month = uint32(total%12) + 1

	monthDays, err := DaysInMonth(d.Year, d.Month)
	if err != nil {
		return 0, err
	}
	if d.Day > monthDays {
		d.Day = monthDays
	}
	return d.Unix()
}
