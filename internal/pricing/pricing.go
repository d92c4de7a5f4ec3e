// Package pricing owns the sale-price derivation shared by the store
// listing, product detail, cart, and checkout. The sale price is always
// computed from (original price, discount) at read time; it is never
// persisted, so it can never drift from its inputs.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SalePrice derives the effective price from an original price and a
// freeform discount string. A trailing "%" makes the discount relative,
// anything else is a flat amount. Unparsable discounts mean "no discount";
// the result never goes below zero. The function is total over its inputs.
func SalePrice(original decimal.Decimal, discount string) decimal.Decimal {
	reduced := original.Sub(discountAmount(original, discount))
	if reduced.IsNegative() {
		return decimal.Zero
	}
	return reduced
}

// SalePriceFloat is SalePrice for callers holding float64 prices, e.g. the
// store-product JSON contract.
func SalePriceFloat(original float64, discount string) float64 {
	price, _ := SalePrice(decimal.NewFromFloat(original), discount).Float64()
	return price
}

func discountAmount(original decimal.Decimal, discount string) decimal.Decimal {
	raw := strings.TrimSpace(discount)
	if raw == "" {
		return decimal.Zero
	}

	if strings.HasSuffix(raw, "%") {
		pct, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(raw, "%")))
		if err != nil {
			return decimal.Zero
		}
		return original.Mul(pct).Div(decimal.NewFromInt(100))
	}

	flat, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return flat
}
