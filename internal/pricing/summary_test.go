package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeConfigSummary_DefaultShipping(t *testing.T) {
	lines := []SummaryLine{
		{ExtendedCost: dec("100.00"), TotalPrice: dec("140.00"), Quantity: 2},
		{ExtendedCost: dec("200.00"), TotalPrice: dec("280.00"), Quantity: 4},
	}

	got := ComputeConfigSummary(lines, decimal.Zero, false)

	assert.True(t, got.EquipmentCost.Equal(dec("300.00")))
	assert.True(t, got.TotalPrice.Equal(dec("420.00")))
	assert.True(t, got.ShippingFee.Equal(dec("15.00")), "shipping = %s", got.ShippingFee)
	assert.True(t, got.Subtotal.Equal(dec("435.00")))
	assert.Equal(t, 2, got.LineCount)
	assert.Equal(t, int64(6), got.TotalQuantity)
}

func TestComputeConfigSummary_ShippingOverrideVerbatim(t *testing.T) {
	lines := []SummaryLine{
		{ExtendedCost: dec("100.00"), TotalPrice: dec("140.00"), Quantity: 1},
		{ExtendedCost: dec("200.00"), TotalPrice: dec("280.00"), Quantity: 1},
	}

	got := ComputeConfigSummary(lines, dec("50.00"), true)

	assert.True(t, got.ShippingFee.Equal(dec("50.00")))
	assert.True(t, got.Subtotal.Equal(dec("470.00")))
}

func TestComputeConfigSummary_OverallMargin(t *testing.T) {
	lines := []SummaryLine{
		{ExtendedCost: dec("70.00"), TotalPrice: dec("100.00"), Quantity: 1},
	}

	got := ComputeConfigSummary(lines, decimal.Zero, false)
	assert.True(t, got.Margin.Equal(dec("0.3000")), "margin = %s", got.Margin)
}

func TestComputeConfigSummary_Empty(t *testing.T) {
	got := ComputeConfigSummary(nil, decimal.Zero, false)

	assert.True(t, got.TotalPrice.Equal(decimal.Zero))
	assert.True(t, got.ShippingFee.Equal(decimal.Zero))
	assert.True(t, got.Margin.Equal(decimal.Zero), "zero total price yields zero margin")
	assert.Equal(t, 0, got.LineCount)
}

func TestComputeConfigSummary_OrderIrrelevant(t *testing.T) {
	a := []SummaryLine{
		{ExtendedCost: dec("10.00"), TotalPrice: dec("15.00"), Quantity: 1},
		{ExtendedCost: dec("20.00"), TotalPrice: dec("25.00"), Quantity: 2},
		{ExtendedCost: dec("30.00"), TotalPrice: dec("45.00"), Quantity: 3},
	}
	b := []SummaryLine{a[2], a[0], a[1]}

	assert.Equal(t, ComputeConfigSummary(a, decimal.Zero, false), ComputeConfigSummary(b, decimal.Zero, false))
}
