package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLineItem_MarginDerivedPrice(t *testing.T) {
	got := ComputeLineItem(LineItemInput{
		UnitCost:      dec("57.63"),
		Quantity:      10,
		TargetMargin:  dec("0.30"),
		TariffPercent: dec("5"),
	})

	assert.True(t, got.ProductPrice.Equal(dec("82.33")), "product price = %s", got.ProductPrice)
	assert.True(t, got.ExtendedCost.Equal(dec("576.30")), "extended cost = %s", got.ExtendedCost)
	assert.True(t, got.TotalPrice.Equal(dec("823.30")), "total price = %s", got.TotalPrice)
	assert.True(t, got.Margin.Equal(dec("0.3000")), "margin = %s", got.Margin)
	assert.True(t, got.TariffAmount.Equal(dec("41.17")), "tariff = %s", got.TariffAmount)
}

func TestComputeLineItem_PriceOverrideVerbatim(t *testing.T) {
	got := ComputeLineItem(LineItemInput{
		UnitCost:      dec("100.00"),
		Quantity:      2,
		TargetMargin:  dec("0.30"),
		ProductPrice:  dec("120.00"),
		PriceOverride: true,
	})

	// Overridden price is never recomputed from margin.
	assert.True(t, got.ProductPrice.Equal(dec("120.00")))
	assert.True(t, got.TotalPrice.Equal(dec("240.00")))
	// Realized margin follows the stored price, not the target.
	assert.True(t, got.Margin.Equal(dec("0.1667")), "margin = %s", got.Margin)
}

func TestComputeLineItem_DegenerateMarginFallsBackToCost(t *testing.T) {
	for _, margin := range []string{"0", "-0.10", "1", "1.25"} {
		got := ComputeLineItem(LineItemInput{
			UnitCost:     dec("57.63"),
			Quantity:     1,
			TargetMargin: dec(margin),
		})
		assert.True(t, got.ProductPrice.Equal(dec("57.63")), "margin %s: price = %s", margin, got.ProductPrice)
		assert.True(t, got.Margin.Equal(decimal.Zero), "margin %s: realized = %s", margin, got.Margin)
	}
}

func TestComputeLineItem_RoundingBoundaries(t *testing.T) {
	// 10.00 / 0.85 = 11.7647... -> 11.76, margin (11.76-10)/11.76 = 0.149659... -> 0.1497
	got := ComputeLineItem(LineItemInput{
		UnitCost:     dec("10.00"),
		Quantity:     1,
		TargetMargin: dec("0.15"),
	})
	assert.True(t, got.ProductPrice.Equal(dec("11.76")), "price = %s", got.ProductPrice)
	assert.True(t, got.Margin.Equal(dec("0.1497")), "margin = %s", got.Margin)

	// Half-up at the cent: 823.30 * 0.05 = 41.165 -> 41.17 (not banker's 41.16).
	tariff := ComputeLineItem(LineItemInput{
		UnitCost:      dec("82.33"),
		Quantity:      10,
		TargetMargin:  dec("0"),
		TariffPercent: dec("5"),
	})
	assert.True(t, tariff.TariffAmount.Equal(dec("41.17")), "tariff = %s", tariff.TariffAmount)
}

func TestComputeLineItem_ZeroCost(t *testing.T) {
	got := ComputeLineItem(LineItemInput{
		UnitCost:     dec("0"),
		Quantity:     3,
		TargetMargin: dec("0.40"),
	})
	assert.True(t, got.ProductPrice.Equal(decimal.Zero))
	assert.True(t, got.TotalPrice.Equal(decimal.Zero))
	assert.True(t, got.Margin.Equal(decimal.Zero))
}

func TestComputeLineItem_ContractViolationsPanic(t *testing.T) {
	assert.Panics(t, func() {
		ComputeLineItem(LineItemInput{UnitCost: dec("-1"), Quantity: 1})
	})
	assert.Panics(t, func() {
		ComputeLineItem(LineItemInput{UnitCost: dec("1"), Quantity: 0})
	})
}
