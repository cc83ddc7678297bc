package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	europeanNumber  = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})*,\d+$`)
	thousandsComma  = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
	decimalComma    = regexp.MustCompile(`^-?\d+,\d+$`)
	dayMonthPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)

	// Day zero of spreadsheet serial dates.
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
)

// Layouts tried before the numeric day/month fallback.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006-01",
	"2006/01",
	"2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
}

// ParseNumericValue normalizes a human-formatted number.
// Currency symbols, percent signs and whitespace are removed; European
// ("1.234,56"), thousands-comma ("1,234.56") and decimal-comma ("12,5") forms
// are recognized in that order. It returns NaN when nothing numeric remains.
func ParseNumericValue(raw string) float64 {
	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune("$£€₹%", r) {
			return -1
		}
		return r
	}, raw)
	if text == "" {
		return math.NaN()
	}

	switch {
	case europeanNumber.MatchString(text):
		text = strings.Replace(strings.ReplaceAll(text, ".", ""), ",", ".", 1)
	case thousandsComma.MatchString(text):
		text = strings.ReplaceAll(text, ",", "")
	case decimalComma.MatchString(text):
		text = strings.Replace(text, ",", ".", 1)
	default:
		text = strings.ReplaceAll(text, ",", "")
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseDateValue interprets raw as a point in time, returned in UTC.
// Plain numbers strictly between 25000 and 80000 are spreadsheet serial days;
// otherwise common calendar layouts are tried, then D/M/Y or M/D/Y with the
// first number above 12 meaning day-first. The boolean is false on failure.
func ParseDateValue(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(serial, 0) && serial > 25000 && serial < 80000 {
		ms := math.Round(serial * 86400000)
		return serialEpoch.Add(time.Duration(ms) * time.Millisecond), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), true
		}
	}

	m := dayMonthPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	month, day := a, b
	if a > 12 {
		day, month = a, b
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	// Day overflow rolls into the following month, e.g. 31/02 becomes 2 or 3 March.
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
