package pricing

// AdjustmentKind identifies which rule produced the winning adjustment.
type AdjustmentKind string

const (
	KindVolume   AdjustmentKind = "volume"
	KindSeasonal AdjustmentKind = "seasonal"
	KindLocation AdjustmentKind = "location"
)

// Adjustment is the single price adjustment applied to an order. Discount
// kinds carry a fraction; the location kind carries the raw multiplier so a
// surcharge (multiplier > 1.0) survives selection unchanged.
type Adjustment struct {
	Kind       AdjustmentKind
	Fraction   float64 // discount fraction, volume and seasonal kinds only
	Multiplier float64 // price multiplier, location kind only
}

// SelectAdjustment picks the best single adjustment from the customer's
// perspective. Adjustments are mutually exclusive, never stacked: when the
// volume or seasonal discount beats the location multiplier's discount
// equivalent, the multiplier is discarded entirely; otherwise the multiplier
// is the one adjustment in play, surcharges included.
func SelectAdjustment(volume, seasonal, multiplier float64) Adjustment {
	locationEquivalent := 0.0
	if multiplier < 1.0 {
		locationEquivalent = 1 - multiplier
	}

	best := max(volume, seasonal)
	if best > locationEquivalent {
		kind := KindVolume
		if seasonal > volume {
			kind = KindSeasonal
		}
		return Adjustment{Kind: kind, Fraction: best}
	}

	return Adjustment{Kind: KindLocation, Multiplier: multiplier}
}

// Apply returns the amount after this adjustment.
func (a Adjustment) Apply(amount float64) float64 {
	if a.Kind == KindLocation {
		return amount * a.Multiplier
	}
	return amount * (1 - a.Fraction)
}

// DiscountFraction reports the customer-visible discount. Location
// surcharges are not discounts and report zero.
func (a Adjustment) DiscountFraction() float64 {
	if a.Kind == KindLocation {
		if a.Multiplier < 1.0 {
			return 1 - a.Multiplier
		}
		return 0
	}
	return a.Fraction
}
