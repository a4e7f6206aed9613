// Package predicate holds the pluggable per-value tests evaluated by mining
// tasks. A Predicate pairs a test on the value itself with an optional test on
// a derived representation of it.
package predicate

import (
	"strconv"
	"unicode/utf8"
)

// Predicate decides whether a value is a match.
//
// Primary is evaluated first. When it holds and Transform is set, the derived
// representation is computed and must also satisfy Secondary. Label names the
// derived representation in generated output (for example "binary").
type Predicate struct {
	Name      string
	Label     string
	Primary   func(v int64) bool
	Transform func(v int64) string
	Secondary func(s string) bool
}

// Eval applies the predicate to v. The derived representation is returned
// for matches so callers can describe them without recomputing it.
func (p Predicate) Eval(v int64) (derived string, ok bool) {
	if p.Primary != nil && !p.Primary(v) {
		return "", false
	}
	if p.Transform == nil {
		return "", true
	}
	derived = p.Transform(v)
	if p.Secondary != nil && !p.Secondary(derived) {
		return "", false
	}
	return derived, true
}

// Valid reports whether the predicate can be evaluated
func (p Predicate) Valid() bool {
	return p.Primary != nil || p.Transform != nil
}

// IsPalindrome reports whether s reads the same forwards and backwards,
// comparing runes.
func IsPalindrome(s string) bool {
	for len(s) > 1 {
		first, fn := utf8.DecodeRuneInString(s)
		last, ln := utf8.DecodeLastRuneInString(s)
		if first != last {
			return false
		}
		if fn+ln > len(s) {
			return true
		}
		s = s[fn : len(s)-ln]
	}
	return true
}

// IsDecimalPalindrome reports whether the base-10 digits of v form a
// palindrome. The sign of a negative value is part of its text, so negative
// values never match.
func IsDecimalPalindrome(v int64) bool {
	return IsPalindrome(strconv.FormatInt(v, 10))
}

// Binary renders v in base 2, with a leading '-' for negative values
func Binary(v int64) string {
	return strconv.FormatInt(v, 2)
}

// DecimalBinaryPalindrome matches values whose decimal and binary
// representations are both palindromes.
func DecimalBinaryPalindrome() Predicate {
	return Predicate{
		Name:      "decimal-binary-palindrome",
		Label:     "binary",
		Primary:   IsDecimalPalindrome,
		Transform: Binary,
		Secondary: IsPalindrome,
	}
}

// DecimalPalindrome matches values whose decimal digits form a palindrome
func DecimalPalindrome() Predicate {
	return Predicate{
		Name:    "decimal-palindrome",
		Label:   "decimal",
		Primary: IsDecimalPalindrome,
		Transform: func(v int64) string {
			return strconv.FormatInt(v, 10)
		},
	}
}

// Lookup returns a built-in predicate by name
func Lookup(name string) (Predicate, bool) {
	switch name {
	case "", "decimal-binary-palindrome":
		return DecimalBinaryPalindrome(), true
	case "decimal-palindrome":
		return DecimalPalindrome(), true
	default:
		return Predicate{}, false
	}
}

// Names lists the built-in predicate names
func Names() []string {
	return []string{"decimal-binary-palindrome", "decimal-palindrome"}
}
