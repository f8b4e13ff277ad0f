package domain

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("14:05")
	if err != nil {
		t.Fatalf("ParseTimeOfDay returned error: %v", err)
	}
	if got.Hour != 14 || got.Minute != 5 {
		t.Fatalf("expected 14:05, got %s", got)
	}

	for _, bad := range []string{"25:00", "12:60", "abc", ""} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNewBookingEventDuration(t *testing.T) {
	ev := NewBookingEvent{
		Start: TimeOfDay{Hour: 14, Minute: 0},
		End:   TimeOfDay{Hour: 14, Minute: 45},
	}
	if got := ev.DurationMinutes(); got != 45 {
		t.Fatalf("expected 45 minutes, got %d", got)
	}

	// An end before the start yields a non-positive duration; callers treat
	// that as an unusable notification rather than clamping it.
	ev.End = TimeOfDay{Hour: 13, Minute: 30}
	if got := ev.DurationMinutes(); got >= 0 {
		t.Fatalf("expected negative duration, got %d", got)
	}
}

func TestEventEnvelopeRoundTrip(t *testing.T) {
	original := RescheduleEvent{
		Name:     "Anna Kowalska",
		OldStart: TimeOfDay{Hour: 10, Minute: 0},
		NewStart: TimeOfDay{Hour: 15, Minute: 30},
	}

	data, err := MarshalEvent(original)
	if err != nil {
		t.Fatalf("MarshalEvent returned error: %v", err)
	}

	restored, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("UnmarshalEvent returned error: %v", err)
	}
	ev, ok := restored.(RescheduleEvent)
	if !ok {
		t.Fatalf("expected RescheduleEvent, got %T", restored)
	}
	if ev.Name != original.Name || ev.NewStart != original.NewStart {
		t.Fatalf("round trip lost fields: %+v", ev)
	}

	if _, err := UnmarshalEvent([]byte(`{"kind":"new"}`)); err == nil {
		t.Fatal("expected error for envelope without payload")
	}
}
