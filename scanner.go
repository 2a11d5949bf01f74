package omd

import (
	"regexp"
	"strings"
)

// tokenKind classifies one whitespace-separated token of a bond row.
// Classification is separated from extraction so each stage can be tested on
// its own: a token is first tagged, then the tagged sequence is mapped onto
// the record fields.
type tokenKind int

const (
	tokenUnrecognized tokenKind = iota
	tokenDenomination
	tokenDate
	tokenNumber
)

type classifiedToken struct {
	kind  tokenKind
	denom Denomination // set for tokenDenomination
	date  Date         // set for tokenDate
	value float64      // set for tokenNumber
}

// classifyToken tags a single row token. Unknown tokens are tagged, not
// rejected: extraction is best-effort.
func classifyToken(token string) classifiedToken {
	switch strings.ToUpper(token) {
	case "UVR":
		return classifiedToken{kind: tokenDenomination, denom: IndexLinked}
	case "COP", "PESOS":
		return classifiedToken{kind: tokenDenomination, denom: LocalCurrency}
	}
	if d, ok := ParseBondDate(token); ok {
		return classifiedToken{kind: tokenDate, date: d}
	}
	if v, ok := ParseNumber(token); ok {
		return classifiedToken{kind: tokenNumber, value: v}
	}
	return classifiedToken{kind: tokenUnrecognized}
}

// Bond prices are quoted as percent of par; anything in this window is taken
// to be the price column. It is the only field with a tight numeric range,
// which is what disambiguates rows with 0, 1 or 2 rate columns before it.
const (
	priceAnchorMin = 40
	priceAnchorMax = 160
)

var isinRE = regexp.MustCompile(`^[A-Z0-9]{10,12}$`)

// IsBondLine reports whether the first whitespace-separated token of line has
// the shape of a bond identifier.
func IsBondLine(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && isinRE.MatchString(fields[0])
}

// ExtractRow turns one bond-shaped line into a RawBondRecord. The caller is
// expected to have checked IsBondLine; the record's Role is left unset.
//
// Numeric fields are mapped through the price anchor: the first number in
// [40,160] is the price, the number after it the face value, and the one or
// two numbers before it the yield and coupon. Rows without an anchor fall
// back to positional assignment.
func ExtractRow(line string) RawBondRecord {
	fields := strings.Fields(line)
	rec := RawBondRecord{Denomination: LocalCurrency}
	if len(fields) == 0 {
		return rec
	}
	if isinRE.MatchString(fields[0]) {
		rec.ISIN = fields[0]
	}

	var nums []float64
	for _, f := range fields[1:] {
		t := classifyToken(f)
		switch t.kind {
		case tokenDenomination:
			rec.Denomination = t.denom
		case tokenDate:
			if rec.Maturity.IsZero() {
				rec.Maturity = t.date
			}
		case tokenNumber:
			nums = append(nums, t.value)
		}
	}

	anchor := -1
	for i, n := range nums {
		if n >= priceAnchorMin && n <= priceAnchorMax {
			anchor = i
			break
		}
	}

	switch {
	case anchor >= 0:
		rec.Price = nums[anchor]
		if anchor+1 < len(nums) {
			rec.FaceValue = nums[anchor+1]
		}
		if anchor >= 1 {
			rec.Yield = nums[anchor-1]
		}
		if anchor >= 2 {
			rec.Coupon = nums[anchor-2]
		}
	case len(nums) >= 4:
		rec.Coupon, rec.Yield, rec.Price, rec.FaceValue = nums[0], nums[1], nums[2], nums[3]
	case len(nums) == 3:
		rec.Yield, rec.Price, rec.FaceValue = nums[0], nums[1], nums[2]
	}
	return rec
}

// Section header phrases, matched case-insensitively. The memos vary between
// the "TES RECIBIDOS/ENTREGADOS POR LA NACIÓN" and "TÍTULOS
// RECOGIDOS/ENTREGADOS" wordings.
var (
	collectedHeaders = []string{"TES RECIBIDOS POR LA NACIÓN", "TÍTULOS RECOGIDOS", "TITULOS RECOGIDOS"}
	deliveredHeaders = []string{"TES ENTREGADOS POR LA NACIÓN", "TÍTULOS ENTREGADOS", "TITULOS ENTREGADOS"}
	columnHeaders    = []string{"CÓDIGO ISIN", "CODIGO ISIN", "VENCIMIENTO"}
)

func containsAny(line string, phrases []string) bool {
	u := strings.ToUpper(line)
	for _, p := range phrases {
		if strings.Contains(u, p) {
			return true
		}
	}
	return false
}

// ScanResult is the outcome of scanning one memo's text.
type ScanResult struct {
	// SettlementDate is zero when the document banner was not found; the
	// operation date is then unknown and must be supplied by the caller.
	SettlementDate Date
	Collected      []RawBondRecord
	Delivered      []RawBondRecord
}

// Records returns the collected records followed by the delivered ones.
func (s ScanResult) Records() []RawBondRecord {
	out := make([]RawBondRecord, 0, len(s.Collected)+len(s.Delivered))
	out = append(out, s.Collected...)
	out = append(out, s.Delivered...)
	return out
}

// Scan splits a memo's extracted text into lines and walks them with a small
// state machine: section headers switch the current role, column-title rows
// are skipped, bond-shaped rows are extracted and tagged with the section's
// role, everything else is noise. The settlement date is matched once against
// the whole document, independently of sections; its absence does not abort
// the scan.
func Scan(text string) ScanResult {
	var res ScanResult
	res.SettlementDate, _ = ParseBannerDate(text)

	type section int
	const (
		noSection section = iota
		inCollected
		inDelivered
	)
	current := noSection

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if containsAny(line, collectedHeaders) {
			current = inCollected
			continue
		}
		if containsAny(line, deliveredHeaders) {
			current = inDelivered
			continue
		}
		if containsAny(line, columnHeaders) {
			continue
		}
		if current == noSection || !IsBondLine(line) {
			continue
		}
		rec := ExtractRow(line)
		switch current {
		case inCollected:
			rec.Role = Collected
			res.Collected = append(res.Collected, rec)
		case inDelivered:
			rec.Role = Delivered
			res.Delivered = append(res.Delivered, rec)
		}
	}
	return res
}
