package phone

import "strings"

// MinDigits is the smallest digit count accepted as a phone number
const MinDigits = 10

// Digits strips every non-digit character from s
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// IsValid reports whether s carries at least MinDigits digits.
// Single-number submission is gated on it; bulk submission is not.
func IsValid(s string) bool {
	return len(Digits(s)) >= MinDigits
}
