package validation

import (
	"regexp"
	"strings"
)

// ChileanRules implements LocaleRules for Chile: mobile phone numbers in
// the +56 9 XXXX XXXX form and RUT national IDs with a Módulo-11 check
// digit.
type ChileanRules struct{}

// NewChileanRules returns the Chilean locale rule set.
func NewChileanRules() ChileanRules {
	return ChileanRules{}
}

// chileanMobileRe matches a whitespace-stripped Chilean mobile number:
// optional +56 country code, the mobile prefix 9, then 8 digits.
var chileanMobileRe = regexp.MustCompile(`^(\+56)?9\d{8}$`)

// ValidPhone reports whether phone is a Chilean mobile number. Whitespace
// is ignored, so "+56 9 1234 5678" and "+56912345678" are equivalent.
func (ChileanRules) ValidPhone(phone string) bool {
	stripped := strings.Join(strings.Fields(phone), "")
	return chileanMobileRe.MatchString(stripped)
}

// ValidNationalID reports whether id is a RUT with a correct check digit.
func (ChileanRules) ValidNationalID(id string) bool {
	return ValidateRUT(id)
}

// FormatChileanPhone reformats free-form digits into +56 9 XXXX XXXX when
// they carry the 569 country+mobile prefix followed by exactly 8 digits.
// Anything else is returned unchanged; this is a display nicety and never
// rejects input.
func FormatChileanPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()

	if strings.HasPrefix(cleaned, "569") {
		number := cleaned[3:]
		if len(number) == 8 {
			return "+56 9 " + number[:4] + " " + number[4:]
		}
	}

	return phone
}

// ValidateRUT checks the Módulo-11 checksum of a Chilean RUT. Thousands
// separators and the dash are stripped first; the check character is
// compared case-insensitively ('k' and 'K' are equivalent). This is a
// legal-identity check and must match the official algorithm exactly:
// digits are weighted from least significant with cyclic multipliers
// 2..7, and the expected check digit is 11-(sum mod 11), mapped 11→'0'
// and 10→'k'.
func ValidateRUT(rut string) bool {
	cleaned := strings.NewReplacer(".", "", "-", "").Replace(rut)
	if len(cleaned) < 2 {
		return false
	}

	body := cleaned[:len(cleaned)-1]
	dv := strings.ToLower(cleaned[len(cleaned)-1:])

	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	expected := 11 - (sum % 11)
	var calculated string
	switch expected {
	case 11:
		calculated = "0"
	case 10:
		calculated = "k"
	default:
		calculated = string(rune('0' + expected))
	}

	return dv == calculated
}

// FormatRUT renders a RUT with thousands separators and a dash before the
// check digit, uppercasing a literal 'k': "184458101" → "18.445.810-1".
func FormatRUT(rut string) string {
	cleaned := strings.ToUpper(strings.NewReplacer(".", "", "-", "").Replace(rut))
	if len(cleaned) <= 1 {
		return cleaned
	}

	body := cleaned[:len(cleaned)-1]
	dv := cleaned[len(cleaned)-1:]

	var sb strings.Builder
	for i, c := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(c)
	}

	return sb.String() + "-" + dv
}
