package phone

import "strings"

// Canonicalize strips every non-digit character from a phone number.
// All quota and ownership checks key on this form, so every caller that
// touches a contact phone must go through here and nowhere else.
func Canonicalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether a canonicalized phone has a plausible length.
// Brazilian numbers with area code are 10 or 11 digits; with the country
// prefix they reach 13.
func IsValid(digits string) bool {
	return len(digits) >= 10 && len(digits) <= 13
}
