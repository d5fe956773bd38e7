package core

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{45.50, "$45.50"},
		{-45.50, "$45.50"},
		{0, "$0.00"},
		{2, "$2.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(AmountFromFloat(tc.in)); got != tc.want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-05", "Jan 5, 2024"},
		{"2023-12-31", "Dec 31, 2023"},
		{"2024-06-15T10:30:00Z", "Jun 15, 2024"}, // createdAt timestamps
		{"not-a-date", "not-a-date"},
	}
	for _, tc := range cases {
		if got := FormatDate(tc.in); got != tc.want {
			t.Fatalf("FormatDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMonthLabel(t *testing.T) {
	if got := FormatMonthLabel("2024-01"); got != "Jan 2024" {
		t.Fatalf("FormatMonthLabel = %q", got)
	}
	if got := FormatMonthLabel("bogus"); got != "bogus" {
		t.Fatalf("FormatMonthLabel fallback = %q", got)
	}
}

func TestAmountJSONRoundTrip(t *testing.T) {
	a := AmountFromFloat(45.5)
	data, err := a.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "45.5" {
		t.Fatalf("expected bare number, got %s", data)
	}
	var b Amount
	if err := b.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("round trip changed value: %s != %s", a, b)
	}
}
