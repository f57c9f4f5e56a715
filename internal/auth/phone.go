package auth

import "strings"

const phoneDigits = 10

// countryPrefix is applied only at presentation boundaries; the store always
// holds the bare 10-digit local form.
const countryPrefix = "+91"

// ToStorageForm strips every non-digit character from raw and keeps the
// trailing 10 digits, so "+91 98765-43210" and "9876543210" normalize to the
// same lookup key. ok is false when fewer than 10 digits remain.
func ToStorageForm(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < phoneDigits {
		return "", false
	}
	return digits[len(digits)-phoneDigits:], true
}

// ToDisplayForm renders a stored phone with the country prefix.
func ToDisplayForm(stored string) string {
	if stored == "" {
		return ""
	}
	return countryPrefix + "-" + stored
}
