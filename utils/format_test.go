package utils

import "testing"

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{49990, "₹49,990.00"},
		{100000, "₹1,00,000.00"},
		{1234567.5, "₹12,34,567.50"},
		{12345678, "₹1,23,45,678.00"},
	}

	for _, tt := range tests {
		got := FormatINR(tt.amount)
		if got != tt.want {
			t.Errorf("FormatINR(%v) = %q; want %q", tt.amount, got, tt.want)
		}
	}
}
