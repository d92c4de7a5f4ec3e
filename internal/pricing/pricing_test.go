package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSalePrice(t *testing.T) {
	cases := []struct {
		name     string
		original string
		discount string
		want     string
	}{
		{"percentage", "100", "20%", "80"},
		{"flat amount", "100", "20", "80"},
		{"full percentage", "50", "100%", "0"},
		{"flat exceeding original clamps", "50", "9999", "0"},
		{"unparsable is no discount", "50", "abc", "50"},
		{"empty is no discount", "75", "", "75"},
		{"percentage with spaces", "200", " 10 % ", "180"},
		{"fractional percentage", "99.90", "10%", "89.91"},
		{"negative result clamps", "10", "150%", "0"},
		{"garbage percent", "80", "x%", "80"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			original := decimal.RequireFromString(tc.original)
			want := decimal.RequireFromString(tc.want)
			got := SalePrice(original, tc.discount)
			if !got.Equal(want) {
				t.Fatalf("SalePrice(%s, %q) = %s, want %s", tc.original, tc.discount, got, want)
			}
		})
	}
}

func TestSalePriceFloat(t *testing.T) {
	if got := SalePriceFloat(100, "20%"); got != 80 {
		t.Fatalf("SalePriceFloat(100, 20%%) = %v, want 80", got)
	}
	if got := SalePriceFloat(50, "abc"); got != 50 {
		t.Fatalf("SalePriceFloat(50, abc) = %v, want 50", got)
	}
}
