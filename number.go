package omd

import (
	"strconv"
	"strings"
)

// ParseNumber parses a Spanish-formatted numeric token as found in OMD memos:
// '.' as thousands separator, ',' as decimal separator, optional trailing '%'.
//
// Separator rules:
//   - both '.' and ',' present: '.' is thousands, ',' is decimal
//     ("9.716.595,80" -> 9716595.80)
//   - only ',' present: decimal separator ("10,655" -> 10.655)
//   - only '.' present: thousands separator ("9.716.595.800.000" ->
//     9716595800000). No token in this corpus carries a bare decimal point.
//
// The second return value is false when the token is not a number.
func ParseNumber(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	token = strings.TrimSuffix(token, "%")
	if token == "" {
		return 0, false
	}

	hasDot := strings.Contains(token, ".")
	hasComma := strings.Contains(token, ",")

	switch {
	case hasDot && hasComma:
		token = strings.ReplaceAll(token, ".", "")
		token = strings.ReplaceAll(token, ",", ".")
	case hasComma:
		token = strings.ReplaceAll(token, ",", ".")
	case hasDot:
		token = strings.ReplaceAll(token, ".", "")
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatNumber formats v with Spanish separators and the given number of
// decimals, the inverse of ParseNumber for the full "1.234,56" style.
func FormatNumber(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	// group the integer part in threes
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if hasFrac {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
