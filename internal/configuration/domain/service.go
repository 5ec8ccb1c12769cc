package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotesync/internal/pricing"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	AddLine(ctx context.Context, configID string, req LineRequest) (*LineResponse, error)
	UpdateLine(ctx context.Context, configID, lineID string, req LineRequest) (*LineResponse, error)
	RemoveLine(ctx context.Context, configID, lineID string) error
	Summary(ctx context.Context, id string) (*SummaryResponse, error)
}

type CreateRequest struct {
	Name         string         `json:"name"`
	CustomerName string         `json:"customer_name"`
	EstimateRef  *string        `json:"estimate_ref,omitempty"`
	ReplaceLines *bool          `json:"replace_lines,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
	Lines        []LineRequest  `json:"lines,omitempty"`
}

type UpdateRequest struct {
	ID               string           `json:"id"`
	Name             *string          `json:"name,omitempty"`
	CustomerName     *string          `json:"customer_name,omitempty"`
	EstimateRef      *string          `json:"estimate_ref,omitempty"`
	ShippingFee      *decimal.Decimal `json:"shipping_fee,omitempty"`
	ShippingOverride *bool            `json:"shipping_override,omitempty"`
	ReplaceLines     *bool            `json:"replace_lines,omitempty"`
	CustomFields     map[string]any   `json:"custom_fields,omitempty"`
}

type LineRequest struct {
	ItemRef       string           `json:"item_ref"`
	Description   *string          `json:"description,omitempty"`
	Quantity      int64            `json:"quantity"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	TargetMargin  decimal.Decimal  `json:"target_margin"`
	ProductPrice  *decimal.Decimal `json:"product_price,omitempty"`
	PriceOverride bool             `json:"price_override"`
	TariffPercent decimal.Decimal  `json:"tariff_percent"`
	CustomColumns map[string]any   `json:"custom_columns,omitempty"`
}

func (r LineRequest) Validate() error {
	if r.ItemRef == "" {
		return ErrInvalidItemRef
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.UnitCost.IsNegative() {
		return ErrInvalidUnitCost
	}
	if r.TariffPercent.IsNegative() || r.TariffPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidTariff
	}
	// Degenerate target margins (<= 0 or >= 1) are accepted on purpose; the
	// calculator prices those lines at cost.
	return nil
}

type Response struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	CustomerName     string          `json:"customer_name,omitempty"`
	EstimateRef      *string         `json:"estimate_ref,omitempty"`
	Status           ConfigStatus    `json:"status"`
	LastError        *string         `json:"last_error,omitempty"`
	Version          int64           `json:"version"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	ShippingOverride bool            `json:"shipping_override"`
	ReplaceLines     bool            `json:"replace_lines"`
	CustomFields     map[string]any  `json:"custom_fields,omitempty"`
	Lines            []LineResponse  `json:"lines,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type LineResponse struct {
	ID            string           `json:"id"`
	ItemRef       string           `json:"item_ref"`
	Description   *string          `json:"description,omitempty"`
	Quantity      int64            `json:"quantity"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	TargetMargin  decimal.Decimal  `json:"target_margin"`
	PriceOverride bool             `json:"price_override"`
	TariffPercent decimal.Decimal  `json:"tariff_percent"`
	Position      int              `json:"position"`
	CustomColumns map[string]any   `json:"custom_columns,omitempty"`

	// Derived figures, never stored except ProductPrice.
	ProductPrice decimal.Decimal `json:"product_price"`
	ExtendedCost decimal.Decimal `json:"extended_cost"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Margin       decimal.Decimal `json:"margin"`
	TariffAmount decimal.Decimal `json:"tariff_amount"`
}

type SummaryResponse struct {
	ConfigurationID string          `json:"configuration_id"`
	Version         int64           `json:"version"`
	EquipmentCost   decimal.Decimal `json:"equipment_cost"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Margin          decimal.Decimal `json:"margin"`
	LineCount       int             `json:"line_count"`
	TotalQuantity   int64           `json:"total_quantity"`
}

// NewSummaryResponse maps a computed summary onto the API shape.
func NewSummaryResponse(configID string, version int64, s pricing.ConfigSummary) *SummaryResponse {
	return &SummaryResponse{
		ConfigurationID: configID,
		Version:         version,
		EquipmentCost:   s.EquipmentCost,
		TotalPrice:      s.TotalPrice,
		ShippingFee:     s.ShippingFee,
		Subtotal:        s.Subtotal,
		Margin:          s.Margin,
		LineCount:       s.LineCount,
		TotalQuantity:   s.TotalQuantity,
	}
}
