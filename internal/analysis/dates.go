package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// serialEpoch anchors spreadsheet serial dates: RVTools exports count days
// since December 31, 1899.
var serialEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// unixEpoch is the sentinel for "very old" creation dates.
var unixEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

const millisPerDay = 86_400_000

var isoPrefixRegex = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)

// fixedLayouts are tried against the date portion of the value, most specific
// first.
var fixedLayouts = []string{
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01-02",
}

// looseLayouts are the locale-default fallbacks tried after the structured
// formats fail.
var looseLayouts = []string{
	time.RFC3339,
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeDate converts a heterogeneous creation-date value (spreadsheet
// serial number, ISO string, locale string) into a calendar date. The second
// return value is false when the value is unparseable; callers treat that as
// "unknown" and never fail the surrounding analysis.
func NormalizeDate(value string) (time.Time, bool) {
	return DefaultAssumptions().NormalizeDate(value)
}

// NormalizeDate applies the parsing rules in priority order, first match wins.
func (a AssumptionSet) NormalizeDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}

	// 1. Spreadsheet serial number.
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial < a.VeryOldSerialThreshold {
			return unixEpoch, true
		}
		ms := int64(serial * millisPerDay)
		return serialEpoch.Add(time.Duration(ms) * time.Millisecond).Truncate(24 * time.Hour), true
	}

	// 2. Explicit epoch markers.
	if strings.Contains(v, "1970-01-01") || strings.Contains(v, "1970/01/01") {
		return unixEpoch, true
	}

	// 3. Fixed formats, date portion only.
	datePart := v
	if len(datePart) > 10 {
		datePart = datePart[:10]
	}
	for _, layout := range fixedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Truncate(24 * time.Hour), true
		}
		if t, err := time.Parse(layout, datePart); err == nil {
			return t.Truncate(24 * time.Hour), true
		}
	}

	// 4. Generic YYYY[-/]MM[-/]DD prefix.
	if m := isoPrefixRegex.FindStringSubmatch(v); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}

	// 5. Locale-default fallbacks.
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	// 6. Unparseable.
	return time.Time{}, false
}
