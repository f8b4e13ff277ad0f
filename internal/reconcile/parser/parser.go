// Package parser extracts typed booking events from the free-form
// notification mails the external booking platform sends.
package parser

import (
	"regexp"
	"strings"

	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/platform/textfold"
)

// ParseError describes why a notification could not be parsed. Parse failures
// are structural: retrying the same input can never succeed.
type ParseError struct {
	Missing string
}

func (e *ParseError) Error() string {
	return "cannot parse booking notification: missing " + e.Missing
}

// subjectTriggers classifies the notification kind from fixed phrases in the
// subject line. Matched against folded text, first hit wins.
var subjectTriggers = []struct {
	phrase string
	kind   domain.EventKind
}{
	{"nowa rezerwacja", domain.EventKindNew},
	{"nowa wizyta", domain.EventKindNew},
	{"zmiana rezerwacji", domain.EventKindReschedule},
	{"zmiana terminu", domain.EventKindReschedule},
	{"odwolana wizyta", domain.EventKindCancel},
	{"anulowana rezerwacja", domain.EventKindCancel},
}

var (
	forwardPrefixRe = regexp.MustCompile(`(?i)^(?:fwd|fw|re|odp|pd)\s*:\s*`)
	clientLineRe    = regexp.MustCompile(`(?im)^klient\s*:\s*(.+)$`)
	staffLineRe     = regexp.MustCompile(`(?im)^(?:pracownik|specjalista)\s*:\s*(.+)$`)
	phoneRe         = regexp.MustCompile(`(?:\+?48[\s-]?)?\d{3}[\s-]?\d{3}[\s-]?\d{3}`)
	emailRe         = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// \b is ASCII-only and never fires after "ł", so the currency suffix
	// ends on an explicit non-letter or end of input instead.
	priceRe         = regexp.MustCompile(`(\d+)[.,](\d{2})\s*z[lł](?:[^\p{L}]|$)`)
	oldSlotMarkerRe = regexp.MustCompile(`(?i)z\s+dnia`)
	newSlotMarkerRe = regexp.MustCompile(`(?i)na\s+dzie[nń]`)
	labelLineRe     = regexp.MustCompile(`^\p{L}[\p{L} ]*:`)
)

// Parse extracts a typed event from a notification's subject and body.
// Returns a *ParseError when a mandatory field for the classified kind is
// absent; the caller treats that as terminal for automated processing.
func Parse(subject, body string) (domain.Event, error) {
	subj := Normalize(subject)
	text := Normalize(body)

	name, kind, ok := classifySubject(subj)
	if !ok {
		// No trigger phrase: fall back to an explicit client line in the
		// body, which only new-booking notifications carry.
		m := clientLineRe.FindStringSubmatch(text)
		if m == nil {
			return nil, &ParseError{Missing: "recognizable subject line"}
		}
		name, kind = strings.TrimSpace(m[1]), domain.EventKindNew
	}
	if name == "" {
		if m := clientLineRe.FindStringSubmatch(text); m != nil {
			name = strings.TrimSpace(m[1])
		}
	}
	if name == "" {
		return nil, &ParseError{Missing: "client name"}
	}

	switch kind {
	case domain.EventKindNew:
		return parseNew(name, text)
	case domain.EventKindReschedule:
		return parseReschedule(name, text)
	default:
		return parseCancel(name, text)
	}
}

// classifySubject matches trigger phrases against the folded subject and
// returns the original-case text preceding the phrase as the client name.
func classifySubject(subject string) (string, domain.EventKind, bool) {
	stripped := subject
	for {
		next := forwardPrefixRe.ReplaceAllString(stripped, "")
		if next == stripped {
			break
		}
		stripped = next
	}

	fields := strings.Fields(stripped)
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = textfold.Fold(f)
	}
	joined := strings.Join(folded, " ")

	for _, trig := range subjectTriggers {
		idx := strings.Index(joined, trig.phrase)
		if idx < 0 {
			continue
		}
		prefixWords := len(strings.Fields(joined[:idx]))
		name := strings.Join(fields[:prefixWords], " ")
		name = strings.Trim(name, " -:,")
		return name, trig.kind, true
	}
	return "", "", false
}

func parseNew(name, text string) (domain.Event, error) {
	slot, ok := findDateTimeRange(text)
	if !ok {
		return nil, &ParseError{Missing: "date and time of the visit"}
	}
	if slot.End == nil {
		return nil, &ParseError{Missing: "end time of the visit"}
	}

	phone := phoneRe.FindString(text)
	if phone == "" {
		return nil, &ParseError{Missing: "client phone number"}
	}

	ev := domain.NewBookingEvent{
		Name:  name,
		Phone: strings.TrimSpace(phone),
		Email: emailRe.FindString(text),
		Date:  slot.Date,
		Start: slot.Start,
		End:   *slot.End,
	}

	if m := staffLineRe.FindStringSubmatch(text); m != nil {
		ev.StaffName = strings.TrimSpace(m[1])
	}

	// Service name and price travel together: the price line closes a block
	// of lines naming the booked service. Either may be absent at parse
	// level; the resolver reports what is missing.
	ev.ServiceName, ev.PriceCents = findServiceAndPrice(text)

	return ev, nil
}

func parseReschedule(name, text string) (domain.Event, error) {
	oldSlot, ok := findDateTimeAfter(text, oldSlotMarkerRe)
	if !ok {
		return nil, &ParseError{Missing: "original date of the visit"}
	}
	newSlot, ok := findDateTimeAfter(text, newSlotMarkerRe)
	if !ok {
		return nil, &ParseError{Missing: "new date of the visit"}
	}

	return domain.RescheduleEvent{
		Name:     name,
		OldDate:  oldSlot.Date,
		OldStart: oldSlot.Start,
		NewDate:  newSlot.Date,
		NewStart: newSlot.Start,
	}, nil
}

func parseCancel(name, text string) (domain.Event, error) {
	slot, ok := findDateTimeRange(text)
	if !ok {
		return nil, &ParseError{Missing: "date and time of the cancelled visit"}
	}

	return domain.CancelEvent{
		Name:  name,
		Date:  slot.Date,
		Start: slot.Start,
	}, nil
}

// findServiceAndPrice locates the price token and collects the non-empty,
// non-URL, non-labeled lines immediately above it as the service name.
func findServiceAndPrice(text string) (string, int64) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := priceRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		whole := atoi64(m[1])
		cents := whole*100 + atoi64(m[2])

		var nameLines []string
		for j := i - 1; j >= 0; j-- {
			candidate := strings.TrimSpace(lines[j])
			if candidate == "" || isURLLine(candidate) || labelLineRe.MatchString(candidate) {
				break
			}
			if dateTimeRangeRe.MatchString(candidate) {
				break
			}
			nameLines = append([]string{candidate}, nameLines...)
		}

		// The service may share the price's own line ("Strzyżenie 120,00 zł").
		if len(nameLines) == 0 {
			prefix := strings.TrimSpace(line[:strings.Index(line, m[0])])
			if prefix != "" && !labelLineRe.MatchString(prefix) {
				nameLines = append(nameLines, prefix)
			}
		}

		return strings.Join(nameLines, " "), cents
	}
	return "", 0
}

func isURLLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "http://") ||
		strings.Contains(lower, "https://") ||
		strings.HasPrefix(lower, "www.")
}

func atoi64(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
