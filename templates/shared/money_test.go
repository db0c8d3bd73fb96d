package shared

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		currency string
		cents    int64
		want     string
	}{
		{"MXN", 2500, "$25.00"},
		{"mxn", 123450, "$1,234.50"},
		{"USD", 5, "$0.05"},
		{"EUR", 100000000, "€1,000,000.00"},
		{"TRY", 1999, "₺19.99"},
		{"GBP", 1050, "10.50 GBP"},
		{"MXN", -2050, "-$20.50"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.currency, tt.cents); got != tt.want {
			t.Fatalf("FormatMoney(%q, %d) = %q, want %q", tt.currency, tt.cents, got, tt.want)
		}
	}
}
