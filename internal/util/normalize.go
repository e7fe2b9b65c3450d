package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstDatePattern = regexp.MustCompile(`^(\d{1,2})[\/\-.](\d{1,2})[\/\-.](\d{4})$`)
)

// NormalizeDate converts a textual date into a canonical YYYY-MM-DD string.
// ISO input passes through unchanged. D/M/YYYY input (with /, - or . as
// separator) is read day-first, per French convention. Anything else falls
// back to today's date; parse failure is never an error.
func NormalizeDate(raw string) string {
	return NormalizeDateAt(raw, time.Now())
}

// NormalizeDateAt is NormalizeDate with an explicit fallback clock.
func NormalizeDateAt(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)

	if isoDatePattern.MatchString(raw) {
		return raw
	}

	if m := dayFirstDatePattern.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}

	return now.Format("2006-01-02")
}

// NormalizeAmount parses a decimal-comma amount. Non-numeric or empty input
// yields 0. The sign is preserved; callers that need a magnitude apply abs.
func NormalizeAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.Replace(raw, ",", ".", 1)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

// MonthIndex maps a year/month pair onto a single linear axis so that the
// distance between two months is a plain subtraction.
func MonthIndex(year int, month time.Month) int {
	return year*12 + int(month)
}
