// Package radio implements the radio domain: frequency validation, room name
// derivation, and the token issuance workflow that ties the LiveKit token
// issuer and the join-audit log together.
package radio

import (
	"fmt"
	"strings"
)

// Frequency bounds, expressed in hundredths. A frequency has at most 5
// significant digits with exactly 2 decimal places, so the valid range is
// [0.00, 999.99].
const (
	minCenti = 0
	maxCenti = 99999
)

// Frequency is a fixed-point channel selector with two decimal places,
// stored as an integer count of hundredths. Integer storage keeps room name
// derivation exact: 12.3 and 12.30 are the same value and always format to
// the same string, with no binary floating-point drift.
type Frequency struct {
	centi int64
}

// FrequencyFromCenti builds a Frequency from a raw hundredths count.
// It is intended for reconstructing values that were validated before
// persistence; out-of-range input returns an error.
func FrequencyFromCenti(centi int64) (Frequency, error) {
	if centi < minCenti || centi > maxCenti {
		return Frequency{}, &InvalidFrequencyError{Reason: "Ensure this value is between 0.00 and 999.99."}
	}
	return Frequency{centi: centi}, nil
}

// ParseFrequency parses and validates a client-supplied decimal string.
// Accepted syntax is a plain decimal with an optional leading minus and an
// optional fraction: digits, optionally followed by '.' and more digits.
// No exponent, no grouping. Validation rules:
//
//   - must be numeric,
//   - at most 2 fractional digits,
//   - within [0.00, 999.99] inclusive.
//
// On success the value is canonical: String() always renders exactly two
// decimal places, so "12.3" and "12.30" are indistinguishable downstream.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Frequency{}, &InvalidFrequencyError{Reason: "A valid number is required."}
	}

	// A leading minus is a well-formed number that fails the range check,
	// not a syntax error, so it reports the lower bound.
	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return Frequency{}, &InvalidFrequencyError{Reason: "A valid number is required."}
		}
	}

	// "5." and ".5" are tolerated like ordinary decimal parsers do, but a
	// bare "." is not a number.
	if intPart == "" && fracPart == "" {
		return Frequency{}, &InvalidFrequencyError{Reason: "A valid number is required."}
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return Frequency{}, &InvalidFrequencyError{Reason: "A valid number is required."}
	}

	if len(fracPart) > 2 {
		return Frequency{}, &InvalidFrequencyError{Reason: "Ensure that there are no more than 2 decimal places."}
	}

	var centi int64
	for _, c := range intPart {
		centi = centi*10 + int64(c-'0')
		if centi > maxCenti { // integer part alone already out of range
			return Frequency{}, rangeError(neg)
		}
	}
	centi *= 100
	switch len(fracPart) {
	case 1:
		centi += int64(fracPart[0]-'0') * 10
	case 2:
		centi += int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	}

	// Negative zero ("-0.00") equals zero and is in range.
	if neg && centi != 0 {
		return Frequency{}, rangeError(true)
	}
	if centi > maxCenti {
		return Frequency{}, rangeError(false)
	}

	return Frequency{centi: centi}, nil
}

func rangeError(belowMin bool) *InvalidFrequencyError {
	if belowMin {
		return &InvalidFrequencyError{Reason: "Ensure this value is greater than or equal to 0.00."}
	}
	return &InvalidFrequencyError{Reason: "Ensure this value is between 0.00 and 999.99."}
}

// ParseFrequencyJSON parses the raw JSON value of a "frequency" field, which
// clients may send either as a string ("101.10") or as a bare number (101.1).
// JSON number literals are parsed from their decimal text, never through a
// float, so precision rules apply to exactly what the client wrote.
func ParseFrequencyJSON(raw []byte) (Frequency, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return Frequency{}, &InvalidFrequencyError{Reason: "This field is required."}
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return ParseFrequency(s)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Centi returns the underlying hundredths count, e.g. 1230 for 12.30.
func (f Frequency) Centi() int64 { return f.centi }

// String renders the canonical fixed two-decimal form, e.g. "12.30".
func (f Frequency) String() string {
	return fmt.Sprintf("%d.%02d", f.centi/100, f.centi%100)
}

// RoomName derives the media room identifier for this frequency. It is a pure
// function of the canonical value: every request for the same frequency joins
// the same room.
func (f Frequency) RoomName() string {
	return "freq-" + f.String()
}
