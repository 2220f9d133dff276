package timeparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Source spreadsheets mix human-typed duration phrases, locale-variant clock
// strings, and raw spreadsheet time serials in the same column. Parse tries a
// fixed chain of strategies and degrades to nil instead of rejecting the row.

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*jam`)
	minutePattern = regexp.MustCompile(`(\d+)\s*menit`)
	secondPattern = regexp.MustCompile(`(\d+)\s*detik`)
)

var clockLayouts = []string{"15:04:05", "15:04", "15"}

const secondsPerDay = 24 * 60 * 60

type strategy func(raw string, reference time.Time) (time.Time, bool)

var strategies = []strategy{parseDurationPhrase, parseClockString, parseFractionalDay}

// Parse converts a heterogeneous cell value into an absolute timestamp
// anchored to the reference date. A nil reference date anchors to today.
// Values that no strategy understands yield nil.
func Parse(value any, referenceDate *time.Time) *time.Time {
	if value == nil {
		return nil
	}

	switch typed := value.(type) {
	case time.Time:
		return &typed
	case *time.Time:
		return typed
	case float64:
		reference := anchor(referenceDate)
		if parsed, ok := fractionalDay(typed, reference); ok {
			return &parsed
		}
		return nil
	}

	raw := strings.TrimSpace(stringify(value))
	if raw == "" {
		return nil
	}

	reference := anchor(referenceDate)
	for _, attempt := range strategies {
		if parsed, ok := attempt(raw, reference); ok {
			return &parsed
		}
	}
	return nil
}

func anchor(referenceDate *time.Time) time.Time {
	if referenceDate != nil {
		return *referenceDate
	}
	return time.Now()
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

func midnight(reference time.Time) time.Time {
	return time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
}

// parseDurationPhrase handles values such as "1 jam 32 menit 20 detik".
// Each quantity is optional and defaults to zero; the combined offset is
// applied to midnight of the reference date.
func parseDurationPhrase(raw string, reference time.Time) (time.Time, bool) {
	if !strings.Contains(raw, "jam") && !strings.Contains(raw, "menit") {
		return time.Time{}, false
	}
	offset := time.Duration(taggedQuantity(hourPattern, raw))*time.Hour +
		time.Duration(taggedQuantity(minutePattern, raw))*time.Minute +
		time.Duration(taggedQuantity(secondPattern, raw))*time.Second
	return midnight(reference).Add(offset), true
}

func taggedQuantity(pattern *regexp.Regexp, raw string) int {
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return 0
	}
	quantity, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return quantity
}

// parseClockString handles clock times written with ":", "." or "," as the
// component separator, trying H:M:S, H:M and bare H in priority order.
// Single-digit components are accepted, so "7:5" reads as 07:05.
func parseClockString(raw string, reference time.Time) (time.Time, bool) {
	normalized := padClockComponents(strings.NewReplacer(".", ":", ",", ":").Replace(raw))
	for _, layout := range clockLayouts {
		clock, err := time.Parse(layout, normalized)
		if err != nil {
			continue
		}
		anchored := time.Date(reference.Year(), reference.Month(), reference.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), 0, reference.Location())
		return anchored, true
	}
	return time.Time{}, false
}

func padClockComponents(normalized string) string {
	components := strings.Split(normalized, ":")
	for i, component := range components {
		if len(component) == 1 {
			components[i] = "0" + component
		}
	}
	return strings.Join(components, ":")
}

// parseFractionalDay handles spreadsheet time serials: a numeral strictly
// between 0 and 1 interpreted as a fraction of a day past midnight.
func parseFractionalDay(raw string, reference time.Time) (time.Time, bool) {
	numeral, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false
	}
	return fractionalDay(numeral, reference)
}

func fractionalDay(numeral float64, reference time.Time) (time.Time, bool) {
	if numeral <= 0 || numeral >= 1 {
		return time.Time{}, false
	}
	seconds := int(math.Round(numeral * secondsPerDay))
	return midnight(reference).Add(time.Duration(seconds) * time.Second), true
}
