package checkout

import (
	"strings"
	"unicode"

	"github.com/nikolayk812/storefront/internal/domain"
)

const (
	maxCardDigits   = 16
	maxExpiryDigits = 4
)

// StripNonDigits keeps ASCII digits only.
func StripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FormatCardNumber masks input as groups of four digits, at most 16 digits.
func FormatCardNumber(input string) string {
	digits := truncate(StripNonDigits(input), maxCardDigits)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry masks input as MM/YY, inserting the slash once a third digit is typed.
func FormatExpiry(input string) string {
	digits := truncate(StripNonDigits(input), maxExpiryDigits)
	if len(digits) > 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// SplitExpiry splits "MM/YY" into month and year; missing parts are empty.
func SplitExpiry(expiry string) (month, year string) {
	parts := strings.Split(expiry, "/")
	month = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		year = strings.TrimSpace(parts[1])
	}
	return month, year
}

// CardFromForm builds card details from raw form values the way the payment
// form submits them: whitespace removed from the number, expiry split on '/'.
func CardFromForm(number, name, expiry, cvv string) domain.CardDetails {
	month, year := SplitExpiry(expiry)

	return domain.CardDetails{
		Number:   strings.Map(dropSpace, number),
		Name:     name,
		ExpMonth: month,
		ExpYear:  year,
		CVV:      cvv,
	}
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
