package pricing

import "github.com/shopspring/decimal"

// SummaryLine is the slice of a computed line the summary needs.
type SummaryLine struct {
	ExtendedCost decimal.Decimal
	TotalPrice   decimal.Decimal
	Quantity     int64
}

// ConfigSummary aggregates one configuration's lines into the figures shown
// on the configuration header.
type ConfigSummary struct {
	EquipmentCost decimal.Decimal
	TotalPrice    decimal.Decimal
	ShippingFee   decimal.Decimal
	Subtotal      decimal.Decimal
	Margin        decimal.Decimal
	LineCount     int
	TotalQuantity int64
}

// defaultShippingRate is applied to total equipment cost when no override is set.
var defaultShippingRate = decimal.NewFromFloat(0.05)

// ComputeConfigSummary reduces an ordered sequence of lines into a summary.
// The reduction is commutative, so ordering only matters for display.
//
// Shipping defaults to 5% of total extended cost; when shippingOverride is set
// the stored shippingFee is used verbatim, regardless of equipment cost.
// Overall margin is zero when total price is zero.
func ComputeConfigSummary(lines []SummaryLine, shippingFee decimal.Decimal, shippingOverride bool) ConfigSummary {
	equipmentCost := decimal.Zero
	totalPrice := decimal.Zero
	var totalQuantity int64
	for _, line := range lines {
		equipmentCost = equipmentCost.Add(line.ExtendedCost)
		totalPrice = totalPrice.Add(line.TotalPrice)
		totalQuantity += line.Quantity
	}

	shipping := shippingFee
	if !shippingOverride {
		shipping = equipmentCost.Mul(defaultShippingRate).Round(2)
	}

	margin := decimal.Zero
	if !totalPrice.IsZero() {
		margin = totalPrice.Sub(equipmentCost).Div(totalPrice).Round(4)
	}

	return ConfigSummary{
		EquipmentCost: equipmentCost.Round(2),
		TotalPrice:    totalPrice.Round(2),
		ShippingFee:   shipping,
		Subtotal:      totalPrice.Add(shipping).Round(2),
		Margin:        margin,
		LineCount:     len(lines),
		TotalQuantity: totalQuantity,
	}
}
