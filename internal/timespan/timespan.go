// Package timespan parses compact duration strings like "2h30m" into a
// bounded Span used for moderation timeouts.
package timespan

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Span holds the parsed components of a duration string. Each field is
// capped at 255; values above that are a parse error, not a wrap.
type Span struct {
	Seconds uint8
	Minutes uint8
	Hours   uint8
	Days    uint8
}

// ErrMissingUnit is returned when a value has no trailing unit character,
// e.g. "30" or the "15" in "2h15".
var ErrMissingUnit = errors.New("no time unit was given")

// ErrTimestampOverflow is returned by Until when the resolved expiry is not
// representable.
var ErrTimestampOverflow = errors.New("timestamp overflow")

// InvalidUnitError reports a trailing character that is alphabetic but not
// one of the four recognized units.
type InvalidUnitError struct {
	Unit rune
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("%q is not a valid time unit - only 's', 'm', 'h' and 'd' are valid", e.Unit)
}

// NumberError reports a magnitude that could not be parsed as an integer in
// the 0..255 range.
type NumberError struct {
	Text string
	Err  error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("bad magnitude %q: %v", e.Text, e.Err)
}

func (e *NumberError) Unwrap() error { return e.Err }

func isUnit(r rune) bool {
	return r == 's' || r == 'm' || r == 'h' || r == 'd'
}

func isAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// Parse converts a string like "2h30m" into a Span. The input is split into
// runs ending at one of the unit markers s, m, h, d; each run's numeric
// prefix fills the matching field. A repeated unit overwrites the earlier
// value rather than accumulating. The empty string parses to the zero Span.
func Parse(s string) (Span, error) {
	var span Span
	for _, run := range splitAfterUnits(s) {
		var digits, letters []rune
		for _, r := range run {
			if isAlpha(r) {
				letters = append(letters, r)
			} else {
				digits = append(digits, r)
			}
		}
		val, err := strconv.ParseUint(string(digits), 10, 8)
		if err != nil {
			return Span{}, &NumberError{Text: string(digits), Err: err}
		}
		if len(letters) == 0 {
			return Span{}, ErrMissingUnit
		}
		switch unit := letters[0]; unit {
		case 's':
			span.Seconds = uint8(val)
		case 'm':
			span.Minutes = uint8(val)
		case 'h':
			span.Hours = uint8(val)
		case 'd':
			span.Days = uint8(val)
		default:
			return Span{}, &InvalidUnitError{Unit: unit}
		}
	}
	return span, nil
}

// splitAfterUnits splits s into runs, each ending just after a unit marker.
// Trailing text with no marker forms a final run of its own.
func splitAfterUnits(s string) []string {
	var runs []string
	start := 0
	for i, r := range s {
		if isUnit(r) {
			runs = append(runs, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		runs = append(runs, s[start:])
	}
	return runs
}

// IsZero reports whether every component of the span is zero.
func (sp Span) IsZero() bool {
	return sp == Span{}
}

// Duration returns the span as a time.Duration.
func (sp Span) Duration() time.Duration {
	secs := int64(sp.Seconds) +
		int64(sp.Minutes)*60 +
		int64(sp.Hours)*60*60 +
		int64(sp.Days)*60*60*24
	return time.Duration(secs) * time.Second
}

// Until resolves the span to an absolute expiry relative to now. It fails
// with ErrTimestampOverflow if the result is not after now for a non-zero
// span.
func (sp Span) Until(now time.Time) (time.Time, error) {
	d := sp.Duration()
	expiry := now.Add(d)
	if d > 0 && !expiry.After(now) {
		return time.Time{}, ErrTimestampOverflow
	}
	return expiry, nil
}

func (sp Span) String() string {
	if sp.IsZero() {
		return "0s"
	}
	out := ""
	if sp.Days > 0 {
		out += fmt.Sprintf("%dd", sp.Days)
	}
	if sp.Hours > 0 {
		out += fmt.Sprintf("%dh", sp.Hours)
	}
	if sp.Minutes > 0 {
		out += fmt.Sprintf("%dm", sp.Minutes)
	}
	if sp.Seconds > 0 {
		out += fmt.Sprintf("%ds", sp.Seconds)
	}
	return out
}
