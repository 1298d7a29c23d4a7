package common

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{999.99, "$999.99"},
		{1000, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{2500000000000, "$2,500,000,000,000.00"},
		{-1234.5, "-$1,234.50"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"1234567", "1,234,567"},
	}
	for _, tc := range cases {
		if got := GroupThousands(tc.in); got != tc.want {
			t.Errorf("GroupThousands(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
