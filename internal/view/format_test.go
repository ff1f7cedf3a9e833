package view

import (
	"testing"

	"golang.org/x/text/language"
)

func TestFormatter_Money(t *testing.T) {
	tests := []struct {
		name   string
		tag    language.Tag
		symbol string
		amount float64
		want   string
	}{
		{"us dollars", language.AmericanEnglish, "$", 15.99, "$15.99"},
		{"rounds to cents", language.AmericanEnglish, "$", 30.5725, "$30.57"},
		{"zero", language.AmericanEnglish, "$", 0, "$0.00"},
		{"italian decimal comma", language.Italian, "€", 15.99, "€15,99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.tag, tt.symbol).Money(tt.amount)
			if got != tt.want {
				t.Errorf("Money(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestDaysLabel(t *testing.T) {
	tests := map[int]string{
		0:  "Today",
		1:  "1 day",
		3:  "3 days",
		-1: "1 day overdue",
		-9: "9 days overdue",
	}
	for days, want := range tests {
		if got := DaysLabel(days); got != want {
			t.Errorf("DaysLabel(%d) = %q, want %q", days, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2025-01-15"); got != "Jan 15, 2025" {
		t.Errorf("FormatDate() = %q", got)
	}
	if got := FormatDate("someday"); got != "someday" {
		t.Errorf("unparseable dates should pass through, got %q", got)
	}
}
