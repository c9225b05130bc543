package validation

import (
	"strconv"
	"strings"
)

// ParseNumericInput turns free-form text into a number so numeric form
// fields always hold a valid value while the user types. Everything but
// digits and the decimal point is stripped; input past a second decimal
// point is ignored; unparseable input yields 0.
func ParseNumericInput(value string) float64 {
	var sb strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()

	if first := strings.IndexByte(cleaned, '.'); first != -1 {
		if second := strings.IndexByte(cleaned[first+1:], '.'); second != -1 {
			cleaned = cleaned[:first+1+second]
		}
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}
