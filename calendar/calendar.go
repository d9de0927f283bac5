// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package calendar provides pure Gregorian calendar arithmetic on Unix
// timestamps. Conversion goes through Julian day numbers, and month/year
// offsets clamp the day of month instead of rolling over, which is the
// behavior term end-dates depend on.
package calendar

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// EpochYear the earliest representable year.
	EpochYear = 1970

	// unixEpochJDN is the Julian day number of 1970-01-01.
	unixEpochJDN = 2440588

	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	// maxYear bounds conversions well below uint64 overflow territory.
	maxYear = 1 << 31
)

// DateTime is a broken-down Gregorian calendar point.
type DateTime struct {
	Year   uint32
	Month  uint32 // 1 - 12
	Day    uint32 // 1 - 31
	Hour   uint32 // 0 - 23
	Minute uint32 // 0 - 59
	Second uint32 // 0 - 59
}

// String implements the stringer interface.
func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// IsLeapYear reports whether the year has a Feb 29.
// Divisible by 4 and not 100, or divisible by 400.
func IsLeapYear(year uint32) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

var daysPerMonth = [12]uint32{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year, month uint32) (uint32, error) {
	if month < 1 || month > 12 {
		return 0, errors.New("month out of range")
	}
	days := daysPerMonth[month-1]
	if month == 2 && IsLeapYear(year) {
		days++
	}
	return days, nil
}

// jdn computes the Julian day number for a civil date.
func jdn(year, month, day uint32) uint64 {
	y, m, d := int64(year), int64(month), int64(day)
	a := (14 - m) / 12
	y = y + 4800 - a
	m = m + 12*a - 3
	return uint64(d + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045)
}

// civil is the inverse of jdn.
func civil(n uint64) (year, month, day uint32) {
	a := int64(n) + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day = uint32(e - (153*m+2)/5 + 1)
	month = uint32(m + 3 - 12*(m/10))
	year = uint32(100*b + d - 4800 + m/10)
	return
}

// FromUnix converts elapsed seconds since the Unix epoch into a DateTime.
func FromUnix(sec uint64) (DateTime, error) {
	days := sec / secondsPerDay
	rem := sec % secondsPerDay

	year, month, day := civil(unixEpochJDN + days)
	if year > maxYear {
		return DateTime{}, errors.New("timestamp out of range")
	}
	return DateTime{
		Year:   year,
		Month:  month,
		Day:    day,
		Hour:   uint32(rem / secondsPerHour),
		Minute: uint32(rem % secondsPerHour / secondsPerMinute),
		Second: uint32(rem % secondsPerMinute),
	}, nil
}

// Unix converts a DateTime back into elapsed seconds since the Unix epoch.
// Dates before the epoch year or malformed tuples fail.
func (d DateTime) Unix() (uint64, error) {
	if d.Year < EpochYear || d.Year > maxYear {
		return 0, errors.New("year out of range")
	}
	monthDays, err := DaysInMonth(d.Year, d.Month)
	if err != nil {
		return 0, err
	}
	if d.Day < 1 || d.Day > monthDays {
		return 0, errors.New("day out of range")
	}
	if d.Hour > 23 || d.Minute > 59 || d.Second > 59 {
		return 0, errors.New("time out of range")
	}

	days := jdn(d.Year, d.Month, d.Day) - unixEpochJDN
	return days*secondsPerDay +
		uint64(d.Hour)*secondsPerHour +
		uint64(d.Minute)*secondsPerMinute +
		uint64(d.Second), nil
}
