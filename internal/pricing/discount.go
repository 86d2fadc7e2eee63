// Package pricing contains the pure discount rules applied when an order is
// placed: a volume discount over the total ordered quantity, a seasonal
// discount gated on the order date and product categories, and a per-region
// price multiplier. At most one adjustment is ever applied to an order; the
// selection helpers pick the single best one from the customer's perspective.
package pricing

import "time"

// Location tags recognised by LocationMultiplier. Any other value falls back
// to standard pricing.
const (
	LocationUS     = "US"
	LocationEurope = "Europe"
	LocationAsia   = "Asia"
)

// Categories eligible for the Christmas seasonal discount.
const (
	CategoryElectronics = "Electronics"
	CategoryToys        = "Toys"
)

// VolumeDiscount returns the discount fraction earned by the total quantity
// of units across all lines of one order. Thresholds are inclusive lower
// bounds; the top tier has no upper bound.
func VolumeDiscount(totalQuantity int) float64 {
	switch {
	case totalQuantity >= 50:
		return 0.30
	case totalQuantity >= 10:
		return 0.20
	case totalQuantity >= 5:
		return 0.10
	default:
		return 0
	}
}

// LocationMultiplier returns the price multiplier for a customer region.
// Europe pays +15% (VAT), Asia pays -5% (lower logistics costs). US and any
// unrecognised or empty value get standard pricing. A multiplier above 1.0
// is a price increase, never a discount.
func LocationMultiplier(location string) float64 {
	switch location {
	case LocationEurope:
		return 1.15
	case LocationAsia:
		return 0.95
	default:
		return 1.0
	}
}

// SeasonalDiscount returns the promotional discount for the order date and
// the product categories present in the order. The year is ignored.
//
// Black Friday (Nov 25) discounts everything by 25%, categories or not. The
// Christmas window (Dec 24-26) discounts 15%, but only when the order
// contains Electronics or Toys.
func SeasonalDiscount(orderDate time.Time, categories []string) float64 {
	month, day := orderDate.Month(), orderDate.Day()

	if month == time.November && day == 25 {
		return 0.25
	}

	if month == time.December && day >= 24 && day <= 26 {
		for _, c := range categories {
			if c == CategoryElectronics || c == CategoryToys {
				return 0.15
			}
		}
	}

	return 0
}

// BestDiscount returns the largest discount fraction among the volume
// discount, the seasonal discount, and the location multiplier expressed as
// a discount. Multipliers at or above 1.0 contribute nothing.
func BestDiscount(volume, seasonal, multiplier float64) float64 {
	location := 0.0
	if multiplier < 1.0 {
		location = 1 - multiplier
	}
	return max(volume, seasonal, location)
}
