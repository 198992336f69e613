package parser

import (
	"testing"
	"time"
)

func localTime(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.Local)
}

func TestExtractDateTime(t *testing.T) {
	cases := []struct {
		name string
		text string
		want time.Time
	}{
		{
			name: "iso date with nearby time",
			text: "The incident occurred on 2025-03-15 at 14:30 local time.",
			want: localTime(2025, time.March, 15, 14, 30, 0),
		},
		{
			name: "iso date only",
			text: "Scheduled for 2025-03-15, details to follow.",
			want: localTime(2025, time.March, 15, 0, 0, 0),
		},
		{
			name: "slashed date parses day first",
			text: "Outage window 03/04/2025 overnight",
			want: localTime(2025, time.April, 3, 0, 0, 0),
		},
		{
			name: "textual month with time",
			text: "Detected on March 15, 2025 at 14:30.",
			want: localTime(2025, time.March, 15, 14, 30, 0),
		},
		{
			name: "textual month without comma",
			text: "Detected on March 15 2025 sometime",
			want: localTime(2025, time.March, 15, 0, 0, 0),
		},
		{
			// The bare HH:MM pattern outranks the AM/PM pattern, so the
			// meridiem is dropped and the value parses on a 24h clock.
			name: "first time pattern wins over meridiem",
			text: "Resolved 2025-03-15 at 2:30 PM",
			want: localTime(2025, time.March, 15, 2, 30, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractDateTime(tc.text)
			if got == nil {
				t.Fatalf("got nil want %v", tc.want)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestExtractDateTimeWindowing(t *testing.T) {
	// The time token sits more than 20 characters past the date, so it
	// must not be attached; the bare date still parses.
	text := "on 2025-03-15 xxxxxxxxxxxxxxxxxxxxxxxxxxxxxx then at 14:30"
	got := ExtractDateTime(text)
	if got == nil {
		t.Fatalf("got nil")
	}
	want := localTime(2025, time.March, 15, 0, 0, 0)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtractDateTimeAbsent(t *testing.T) {
	if got := ExtractDateTime("no temporal information at all"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	// Dotted dates match the candidate pattern but no parse format, so the
	// candidate is discarded.
	if got := ExtractDateTime("happened on 15.03.2025"); got != nil {
		t.Fatalf("expected nil for dotted date, got %v", got)
	}
}
