// Package xsddatetime parses, normalizes and canonicalizes XSD date and
// dateTime lexical values. It backs the "date"/"dateTime" literal kinds
// in package literal and, through results.Term.Literal, the comparison
// engine's cell equality and ordering.
package xsddatetime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dajobe/rasqal-sub006/rerror"
)

// Value is a parsed, not-yet-necessarily-normalized calendar value. Years
// are stored as a sign plus a strictly positive magnitude: year 0 does
// not exist in the XSD calendar, so "the year before +1" is "-1".
type Value struct {
	Negative    bool // true if this is a BCE (negative) year
	Year        int  // magnitude, always >= 1
	Month       int  // 1-12
	Day         int  // 1-31
	HasTime     bool
	Hour        int // 0-24; 24 only transiently, normalized away by Normalize
	Minute      int // 0-59
	Second      int // 0-59
	Microsecond int // 0-999999, truncated (not rounded) beyond 6 fractional digits
	HasTZ       bool
	TZNegative  bool
	TZHour      int // 0-14
	TZMinute    int // 0-59; must be 0 when TZHour == 14
}

// IsLeapYear reports whether the given (always-positive) Gregorian year
// magnitude is a leap year: divisible by 4, and not by 100 unless also by
// 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given
// (positive) year magnitude.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// Parse parses a lexical XSD date or dateTime value per the grammar:
// '-'? yyyy '-' mm '-' dd ( 'T' hh ':' mm ':' ss ('.' fraction)? )? timezone?
func Parse(s string) (*Value, error) {
	orig := s
	v := &Value{}

	if strings.HasPrefix(s, "-") {
		v.Negative = true
		s = s[1:]
	}

	yearDigits, rest, err := takeDigitsUntil(s, '-')
	if err != nil {
		return nil, parseErr(orig, "expected year: %v", err)
	}
	if len(yearDigits) < 4 {
		return nil, parseErr(orig, "year must have at least 4 digits")
	}
	if len(yearDigits) > 4 && yearDigits[0] == '0' {
		return nil, parseErr(orig, "year longer than 4 digits must not have a leading zero")
	}
	year, _ := strconv.Atoi(yearDigits)
	if year == 0 {
		return nil, parseErr(orig, "year 0 is not permitted")
	}
	v.Year = year
	s = rest

	month, rest, err := takeFixedDigits(s, 2, '-')
	if err != nil {
		return nil, parseErr(orig, "expected month: %v", err)
	}
	if month < 1 || month > 12 {
		return nil, parseErr(orig, "month %d out of range", month)
	}
	v.Month = month
	s = rest

	dayStr, rest, _ := cutN(s, 2)
	day, err := strconv.Atoi(dayStr)
	if err != nil || len(dayStr) != 2 {
		return nil, parseErr(orig, "expected day")
	}
	maxDay := DaysInMonth(v.Year, v.Month)
	if day < 1 || day > maxDay {
		return nil, parseErr(orig, "day %d out of range for %04d-%02d (max %d)", day, v.Year, v.Month, maxDay)
	}
	v.Day = day
	s = rest

	if s == "" {
		return v, nil
	}

	if s[0] != 'T' {
		return nil, parseErr(orig, "expected 'T' or end of string, got %q", s)
	}
	s = s[1:]
	v.HasTime = true

	hour, rest, err := takeFixedDigits(s, 2, ':')
	if err != nil {
		return nil, parseErr(orig, "expected hour: %v", err)
	}
	if hour < 0 || hour > 24 {
		return nil, parseErr(orig, "hour %d out of range", hour)
	}
	v.Hour = hour
	s = rest

	minute, rest, err := takeFixedDigits(s, 2, ':')
	if err != nil {
		return nil, parseErr(orig, "expected minute: %v", err)
	}
	if minute < 0 || minute > 59 {
		return nil, parseErr(orig, "minute %d out of range", minute)
	}
	v.Minute = minute
	s = rest

	secStr, rest, _ := cutN(s, 2)
	second, err := strconv.Atoi(secStr)
	if err != nil || len(secStr) != 2 {
		return nil, parseErr(orig, "expected second")
	}
	if second < 0 || second > 59 {
		return nil, parseErr(orig, "second %d out of range", second)
	}
	v.Second = second
	s = rest

	if strings.HasPrefix(s, ".") {
		s = s[1:]
		digits, rest := splitDigits(s)
		if len(digits) == 0 {
			return nil, parseErr(orig, "expected fractional second digits")
		}
		v.Microsecond = microsecondsFromFraction(digits)
		s = rest
	}

	if v.Hour == 24 {
		if v.Minute != 0 || v.Second != 0 || v.Microsecond != 0 {
			return nil, parseErr(orig, "24:00:00 is the only valid hour-24 time")
		}
	}

	if s != "" {
		if err := v.parseTimezone(s); err != nil {
			return nil, parseErr(orig, "%v", err)
		}
	}

	return v, nil
}

func (v *Value) parseTimezone(s string) error {
	if s == "Z" {
		v.HasTZ = true
		return nil
	}
	if len(s) == 0 {
		return fmt.Errorf("expected timezone")
	}
	switch s[0] {
	case '+':
		v.TZNegative = false
	case '-':
		v.TZNegative = true
	default:
		return fmt.Errorf("invalid timezone %q", s)
	}
	s = s[1:]
	hour, rest, err := takeFixedDigits(s, 2, ':')
	if err != nil {
		return fmt.Errorf("expected timezone hour: %v", err)
	}
	minStr, rest2, _ := cutN(rest, 2)
	minute, err := strconv.Atoi(minStr)
	if err != nil || len(minStr) != 2 || rest2 != "" {
		return fmt.Errorf("expected timezone minute")
	}
	if hour < 0 || hour > 14 {
		return fmt.Errorf("timezone hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("timezone minute %d out of range", minute)
	}
	if hour == 14 && minute != 0 {
		return fmt.Errorf("timezone +/-14:00 is the maximum offset")
	}
	v.HasTZ = true
	v.TZHour = hour
	v.TZMinute = minute
	return nil
}

func parseErr(orig, format string, args ...interface{}) error {
	return rerror.AtLocator(rerror.KindParse, fmt.Sprintf("%q", orig), fmt.Sprintf(format, args...))
}

func cutN(s string, n int) (head, tail string, ok bool) {
	if len(s) < n {
		return s, "", false
	}
	return s[:n], s[n:], true
}

func takeFixedDigits(s string, n int, sep byte) (int, string, error) {
	head, tail, ok := cutN(s, n)
	if !ok {
		return 0, "", fmt.Errorf("insufficient digits")
	}
	for _, c := range head {
		if c < '0' || c > '9' {
			return 0, "", fmt.Errorf("non-digit %q", head)
		}
	}
	val, _ := strconv.Atoi(head)
	if sep != 0 {
		if len(tail) == 0 || tail[0] != sep {
			return 0, "", fmt.Errorf("expected separator %q", sep)
		}
		tail = tail[1:]
	}
	return val, tail, nil
}

func takeDigitsUntil(s string, sep byte) (string, string, error) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return "", "", fmt.Errorf("separator %q not found", sep)
	}
	digits := s[:idx]
	if len(digits) == 0 {
		return "", "", fmt.Errorf("no digits before separator")
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", "", fmt.Errorf("non-digit in %q", digits)
		}
	}
	return digits, s[idx+1:], nil
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// microsecondsFromFraction truncates (never rounds) a fractional-seconds
// digit string to microsecond precision.
func microsecondsFromFraction(digits string) int {
	if len(digits) > 6 {
		digits = digits[:6]
	}
	for len(digits) < 6 {
		digits += "0"
	}
	v, _ := strconv.Atoi(digits)
	return v
}

// clone returns a deep (value) copy.
func (v *Value) clone() *Value {
	nv := *v
	return &nv
}

// addDays advances the date component by n >= 0 days, carrying into month
// and year (skipping year 0).
func (v *Value) addDays(n int) {
	for ; n > 0; n-- {
		dim := DaysInMonth(v.Year, v.Month)
		if v.Day < dim {
			v.Day++
			continue
		}
		v.Day = 1
		if v.Month < 12 {
			v.Month++
			continue
		}
		v.Month = 1
		v.Negative, v.Year = nextYear(v.Negative, v.Year)
	}
}

// subDays retreats the date component by n >= 0 days.
func (v *Value) subDays(n int) {
	for ; n > 0; n-- {
		if v.Day > 1 {
			v.Day--
			continue
		}
		if v.Month > 1 {
			v.Month--
		} else {
			v.Month = 12
			v.Negative, v.Year = prevYear(v.Negative, v.Year)
		}
		v.Day = DaysInMonth(v.Year, v.Month)
	}
}

// nextYear returns the (sign, magnitude) of the year that follows
// (negative, year) moving forward in time, skipping year 0: ... -2, -1, 1,
// 2, ...
func nextYear(negative bool, year int) (bool, int) {
	if negative {
		if year > 1 {
			return true, year - 1
		}
		return false, 1
	}
	return false, year + 1
}

// prevYear returns the (sign, magnitude) of the year that precedes
// (negative, year) moving backward in time, skipping year 0.
func prevYear(negative bool, year int) (bool, int) {
	if negative {
		return true, year + 1
	}
	if year > 1 {
		return false, year - 1
	}
	return true, 1
}

// addMinutes shifts the time-of-day by delta minutes (positive or
// negative), carrying whole days into the date component.
func (v *Value) addMinutes(delta int) {
	total := v.Hour*60 + v.Minute + delta
	dayCarry := 0
	for total < 0 {
		total += 24 * 60
		dayCarry--
	}
	for total >= 24*60 {
		total -= 24 * 60
		dayCarry++
	}
	v.Hour = total / 60
	v.Minute = total % 60
	if dayCarry > 0 {
		v.addDays(dayCarry)
	} else if dayCarry < 0 {
		v.subDays(-dayCarry)
	}
}

// normalizeHour24 converts a 24:00:00 time to the following day's
// 00:00:00.
func (v *Value) normalizeHour24() {
	if v.Hour == 24 {
		v.Hour = 0
		v.addDays(1)
	}
}

// Normalize returns a new Value with any present timezone converted to UTC
// (Z) and any 24:00:00 time rolled onto the next day. Values with no
// timezone ("floating" values) are returned with their date/time
// unchanged.
func (v *Value) Normalize() *Value {
	nv := v.clone()
	nv.normalizeHour24()
	if nv.HasTZ {
		offset := nv.TZHour*60 + nv.TZMinute
		if nv.TZNegative {
			offset = -offset
		}
		// local = UTC + offset, so UTC = local - offset.
		nv.addMinutes(-offset)
		nv.TZHour, nv.TZMinute, nv.TZNegative = 0, 0, false
	}
	return nv
}

// Canonical returns the canonical lexical form: four-or-more digit year
// with no superfluous leading zeros, "Z" for UTC, no "24:00:00", and no
// trailing zeros on the fractional second. Canonical form is only
// meaningful for a normalized value; callers typically call
// Normalize().Canonical().
func (v *Value) Canonical() string {
	var b strings.Builder
	if v.Negative {
		b.WriteByte('-')
	}
	fmt.Fprintf(&b, "%04d-%02d-%02d", v.Year, v.Month, v.Day)
	if v.HasTime {
		fmt.Fprintf(&b, "T%02d:%02d:%02d", v.Hour, v.Minute, v.Second)
		if v.Microsecond != 0 {
			frac := fmt.Sprintf("%06d", v.Microsecond)
			frac = strings.TrimRight(frac, "0")
			b.WriteByte('.')
			b.WriteString(frac)
		}
	}
	if v.HasTZ {
		if !v.TZNegative && v.TZHour == 0 && v.TZMinute == 0 {
			b.WriteByte('Z')
		} else {
			if v.TZNegative {
				b.WriteByte('-')
			} else {
				b.WriteByte('+')
			}
			fmt.Fprintf(&b, "%02d:%02d", v.TZHour, v.TZMinute)
		}
	}
	return b.String()
}

// tuple returns the ordering key: lexicographic over (sign, year, month,
// day, hour, minute, second, microsecond) after normalization.
func (v *Value) tuple() [8]int {
	sign := 1
	if v.Negative {
		sign = -1
	}
	return [8]int{sign, sign * v.Year, v.Month, v.Day, v.Hour, v.Minute, v.Second, v.Microsecond}
}

// Compare returns -1, 0 or 1 comparing two values after normalizing both
// to UTC.
func Compare(a, b *Value) int {
	na, nb := a.Normalize(), b.Normalize()
	ta, tb := na.tuple(), nb.tuple()
	for i := range ta {
		if ta[i] < tb[i] {
			return -1
		}
		if ta[i] > tb[i] {
			return 1
		}
	}
	return 0
}

// Equal reports whether two values denote the same calendar instant.
func Equal(a, b *Value) bool {
	return Compare(a, b) == 0
}
