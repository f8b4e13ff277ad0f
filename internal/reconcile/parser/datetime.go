package parser

import (
	"regexp"
	"strconv"
	"time"

	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/platform/textfold"
)

// monthsPL maps folded Polish month names (genitive as written in dates,
// plus nominative for robustness) to month numbers.
var monthsPL = map[string]time.Month{
	"stycznia": time.January, "styczen": time.January,
	"lutego": time.February, "luty": time.February,
	"marca": time.March, "marzec": time.March,
	"kwietnia": time.April, "kwiecien": time.April,
	"maja": time.May, "maj": time.May,
	"czerwca": time.June, "czerwiec": time.June,
	"lipca": time.July, "lipiec": time.July,
	"sierpnia": time.August, "wrzesnia": time.September,
	"wrzesien": time.September, "sierpien": time.August,
	"pazdziernika": time.October, "pazdziernik": time.October,
	"listopada": time.November, "listopad": time.November,
	"grudnia": time.December, "grudzien": time.December,
}

// dateTimeRangeRe matches the platform's long-form slot expression:
// "25 października 2024, 14:00 - 14:45" with the end time optional.
var dateTimeRangeRe = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\s+(\d{4}),?\s+(\d{1,2}):(\d{2})(?:\s*-\s*(\d{1,2}):(\d{2}))?`)

// dateTimeRange is a calendar date with a start time and optional end time.
type dateTimeRange struct {
	Date  time.Time
	Start domain.TimeOfDay
	End   *domain.TimeOfDay
}

// findDateTimeRange extracts the first slot expression from text.
// An unrecognized month name fails the extraction: the source system
// defaulted unknown months to January, which silently produced bookings
// on the wrong date; failing routes the message to an operator instead.
func findDateTimeRange(text string) (dateTimeRange, bool) {
	m := dateTimeRangeRe.FindStringSubmatch(text)
	if m == nil {
		return dateTimeRange{}, false
	}
	return buildRange(m)
}

// findDateTimeAfter extracts the first slot expression following the marker.
func findDateTimeAfter(text string, marker *regexp.Regexp) (dateTimeRange, bool) {
	loc := marker.FindStringIndex(text)
	if loc == nil {
		return dateTimeRange{}, false
	}
	return findDateTimeRange(text[loc[1]:])
}

func buildRange(m []string) (dateTimeRange, bool) {
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month, ok := monthsPL[textfold.Fold(m[2])]
	if !ok {
		return dateTimeRange{}, false
	}
	if day < 1 || day > 31 {
		return dateTimeRange{}, false
	}

	startHour, _ := strconv.Atoi(m[4])
	startMin, _ := strconv.Atoi(m[5])
	if startHour > 23 || startMin > 59 {
		return dateTimeRange{}, false
	}

	r := dateTimeRange{
		Date:  time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Start: domain.TimeOfDay{Hour: startHour, Minute: startMin},
	}

	if m[6] != "" {
		endHour, _ := strconv.Atoi(m[6])
		endMin, _ := strconv.Atoi(m[7])
		if endHour > 23 || endMin > 59 {
			return dateTimeRange{}, false
		}
		r.End = &domain.TimeOfDay{Hour: endHour, Minute: endMin}
	}

	return r, true
}
