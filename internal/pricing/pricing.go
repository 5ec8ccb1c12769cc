package pricing

import "github.com/shopspring/decimal"

// LineItemInput carries the stored pricing fields of a single configuration
// line. Values are immutable for the duration of a calculation.
type LineItemInput struct {
	UnitCost      decimal.Decimal
	Quantity      int64
	TargetMargin  decimal.Decimal
	ProductPrice  decimal.Decimal
	PriceOverride bool
	TariffPercent decimal.Decimal
}

// LineItemComputed is the derived pricing of a single line. Currency values
// are rounded to 2 decimals, Margin to 4.
type LineItemComputed struct {
	ProductPrice decimal.Decimal
	ExtendedCost decimal.Decimal
	TotalPrice   decimal.Decimal
	Margin       decimal.Decimal
	TariffAmount decimal.Decimal
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ComputeLineItem derives product price, extended cost, total price, realized
// margin and tariff amount for one line item.
//
// When PriceOverride is set the stored product price is used verbatim and the
// realized margin is whatever that price implies. Otherwise the price is
// derived from the target margin, with a long-standing quirk kept on purpose:
// a target margin at or below 0, or at or above 1, silently falls back to
// product price = unit cost (zero margin) instead of being rejected. Summary
// math downstream depends on that behavior.
//
// Negative unit costs and non-positive quantities are contract violations by
// the caller, not soft errors.
func ComputeLineItem(in LineItemInput) LineItemComputed {
	if in.UnitCost.IsNegative() {
		panic("pricing: negative unit cost")
	}
	if in.Quantity <= 0 {
		panic("pricing: non-positive quantity")
	}

	productPrice := in.ProductPrice
	if !in.PriceOverride {
		if in.TargetMargin.IsPositive() && in.TargetMargin.LessThan(one) {
			productPrice = in.UnitCost.Div(one.Sub(in.TargetMargin)).Round(2)
		} else {
			productPrice = in.UnitCost
		}
	}

	qty := decimal.NewFromInt(in.Quantity)
	extendedCost := in.UnitCost.Mul(qty).Round(2)
	totalPrice := productPrice.Mul(qty).Round(2)

	margin := decimal.Zero
	if productPrice.IsPositive() {
		margin = productPrice.Sub(in.UnitCost).Div(productPrice).Round(4)
	}

	tariffAmount := decimal.Zero
	if in.TariffPercent.IsPositive() {
		tariffAmount = totalPrice.Mul(in.TariffPercent.Div(hundred)).Round(2)
	}

	return LineItemComputed{
		ProductPrice: productPrice,
		ExtendedCost: extendedCost,
		TotalPrice:   totalPrice,
		Margin:       margin,
		TariffAmount: tariffAmount,
	}
}
