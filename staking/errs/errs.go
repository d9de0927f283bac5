// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package errs defines the typed failure taxonomy of the staking ledger.
// Every failure is terminal for the current request; callers correct the
// condition and resubmit.
package errs

import "errors"

// Kind classifies a ledger failure.
type Kind uint8

const (
	KindValidation    Kind = iota // cap / minimum / duration / period-state violations
	KindAuthorization             // expired / replayed / bad-signer tokens
	KindState                     // not found, wrong lifecycle state, already claimed
	KindArithmetic                // calendar overflow / underflow
)

// String implements the stringer interface.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindArithmetic:
		return "arithmetic"
	}
	return "unknown"
}

// Error is a typed ledger failure.
type Error struct {
	kind    Kind
	message string
}

func (e *Error) Error() string {
	return e.kind.String() + ": " + e.message
}

// Kind returns the failure classification.
func (e *Error) Kind() Kind {
	return e.kind
}

func Validation(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

func Authorization(message string) *Error {
	return &Error{kind: KindAuthorization, message: message}
}

func State(message string) *Error {
	return &Error{kind: KindState, message: message}
}

func Arithmetic(message string) *Error {
	return &Error{kind: KindArithmetic, message: message}
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}

func IsValidation(err error) bool    { return is(err, KindValidation) }
func IsAuthorization(err error) bool { return is(err, KindAuthorization) }
func IsState(err error) bool         { return is(err, KindState) }
func IsArithmetic(err error) bool    { return is(err, KindArithmetic) }

// KindOf returns the kind of a typed failure, with ok=false for plain errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}
