package omd

import (
	"testing"
	"time"
)

func TestParseBondDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		ok       bool
	}{
		// Spanish abbreviated months, 2-digit year
		{"15-dic-26", NewDate(2026, time.December, 15), true},
		{"2-ene-31", NewDate(2031, time.January, 2), true},
		{"15-DIC-26", NewDate(2026, time.December, 15), true},
		{"21-may-2031", NewDate(2031, time.May, 21), true},
		// leap day is a valid maturity
		{"29-feb-24", NewDate(2024, time.February, 29), true},
		// impossible days must be absent, not rolled over
		{"31-abr-25", Date{}, false},
		{"29-feb-25", Date{}, false},
		// ISO and slash forms
		{"2026-12-15", NewDate(2026, time.December, 15), true},
		{"21/5/2031", NewDate(2031, time.May, 21), true},
		// not dates at all
		{"COP", Date{}, false},
		{"10,655%", Date{}, false},
		{"15-xyz-26", Date{}, false},
		{"", Date{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseBondDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseBondDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.expected {
			t.Errorf("ParseBondDate(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseBannerDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		ok       bool
	}{
		{"Bogotá D. C., 19 de diciembre de 2025", NewDate(2025, time.December, 19), true},
		{"Bogotá D.C., 3 de enero de 2026 — Memorando", NewDate(2026, time.January, 3), true},
		// a long-form date without the city prefix is not the banner
		{"19 de Diciembre de 2025", Date{}, false},
		{"Resolución 1234 del 15 de enero de 2025", Date{}, false},
		// an earlier resolution date must not shadow the banner
		{"Resolución 1234 del 15 de enero de 2025\nBogotá D. C., 19 de diciembre de 2025", NewDate(2025, time.December, 19), true},
		{"no date in this line", Date{}, false},
		{"Bogotá D. C., 19 de brumario de 2025", Date{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseBannerDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseBannerDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.expected {
			t.Errorf("ParseBannerDate(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestDateDays(t *testing.T) {
	a := NewDate(2025, time.December, 19)
	b := NewDate(2026, time.December, 15)
	if got := a.Days(b); got != 361 {
		t.Errorf("Days() = %d, want 361", got)
	}
	if got := b.Days(a); got != -361 {
		t.Errorf("reverse Days() = %d, want -361", got)
	}
}
