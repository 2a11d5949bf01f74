package omd

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool {
	return d.y == 0 && d.m == 0 && d.d == 0
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according
// to the layout defined by the argument. See the documentation for [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// AddYear returns a new Date with the given number of years added.
func (d Date) AddYear(i int) Date { return NewDate(d.y+i, d.m, d.d) }

// Days returns the number of days from d to x. Negative if x is before d.
func (d Date) Days(x Date) int {
	return int(x.time().Sub(d.time()) / (24 * time.Hour))
}

// spanishMonths maps the 3-letter Spanish month abbreviations used in OMD
// memo maturity columns (e.g. "15-dic-26").
var spanishMonths = map[string]time.Month{
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
}

// spanishMonthNames maps the full month names used in the memo date banner
// ("Bogotá D. C., 19 de diciembre de 2025").
var spanishMonthNames = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

var (
	abbrevDateRE = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{2}|\d{4})$`)
	isoDateRE    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	slashDateRE  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// ParseBondDate parses the maturity-date forms found in OMD memo rows:
// "15-dic-26", "15-DIC-2026", ISO "2026-12-15" and "15/12/2026".
// Two-digit years are interpreted as 2000+YY. The second return value is
// false when the token is not a date, or names an impossible day such as
// "31-abr-25".
func ParseBondDate(token string) (Date, bool) {
	token = strings.TrimSpace(token)

	if m := abbrevDateRE.FindStringSubmatch(token); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := spanishMonths[strings.ToLower(m[2])]
		if !ok {
			return Date{}, false
		}
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return newValidDate(year, month, day)
	}

	if m := isoDateRE.FindStringSubmatch(token); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return newValidDate(year, time.Month(month), day)
	}

	if m := slashDateRE.FindStringSubmatch(token); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return newValidDate(year, time.Month(month), day)
	}

	return Date{}, false
}

// newValidDate builds a Date and rejects inputs that time normalization would
// silently roll over (e.g. April 31 becoming May 1).
func newValidDate(year int, month time.Month, day int) (Date, bool) {
	if month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	d := NewDate(year, month, day)
	if d.y != year || d.m != month || d.d != day {
		return Date{}, false
	}
	return d, true
}

var bannerDateRE = regexp.MustCompile(`Bogotá\s+D\.?\s*C\.?,\s*(\d{1,2})\s+de\s+([A-Za-zÁ-Úá-ú]+)\s+de\s+(\d{4})`)

// ParseBannerDate finds the city-dated header phrase ("Bogotá D. C., 19 de
// diciembre de 2025") in text and returns its date. Long-form dates without
// the city prefix, such as cited resolution dates, are not settlement anchors.
func ParseBannerDate(text string) (Date, bool) {
	m := bannerDateRE.FindStringSubmatch(text)
	if m == nil {
		return Date{}, false
	}
	month, ok := spanishMonthNames[strings.ToLower(m[2])]
	if !ok {
		return Date{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	return newValidDate(year, month, day)
}

// ParseDate parses a date from a CLI flag or data file, where a wrong date
// should be an error rather than a skipped token.
func ParseDate(str string) (Date, error) {
	if d, ok := ParseBondDate(str); ok {
		return d, nil
	}
	return Date{}, fmt.Errorf("invalid date %q, want format %q or \"2-ene-06\"", str, DateFormat)
}

// UnmarshalJSON implements the json specific way to unmarshal a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	on, err := time.Parse(DateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q in data file, want format %q: %w", str, DateFormat, err)
	}
	*d = NewDate(on.Date())
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshal/unmarshal type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
