package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ConfigStatus is the lifecycle state of a configuration.
type ConfigStatus string

const (
	ConfigStatusDraft     ConfigStatus = "DRAFT"
	ConfigStatusSubmitted ConfigStatus = "SUBMITTED"
	ConfigStatusError     ConfigStatus = "ERROR"
)

// Configuration is a sales configuration: a header plus priced line items
// destined for a NetSuite estimate.
//
// Version is a monotonic counter bumped exactly once by every persisted
// mutation of submittable state (line add/update/delete, field update), in
// the same transaction as the mutation. It identifies the snapshot that a
// submission pushed out; status flips driven by the submission pipeline do
// NOT bump it, so a failed submit can be retried under the same version.
type Configuration struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null"`
	CustomerName string       `gorm:"column:customer_name;type:text"`

	// EstimateRef is the internal id of the linked NetSuite estimate record.
	// A configuration without one cannot be submitted.
	EstimateRef *string `gorm:"column:estimate_ref;type:text"`

	Status    ConfigStatus `gorm:"type:text;not null;default:'DRAFT'"`
	LastError *string      `gorm:"column:last_error;type:text"`

	Version int64 `gorm:"not null;default:1"`

	ShippingFee      decimal.Decimal `gorm:"column:shipping_fee;type:numeric(12,2)"`
	ShippingOverride bool            `gorm:"column:shipping_override;not null;default:false"`

	// ReplaceLines asks NetSuite to delete-then-reinsert all lines tagged by
	// this integration instead of appending.
	ReplaceLines bool `gorm:"column:replace_lines;not null;default:true"`

	CustomFields datatypes.JSONMap `gorm:"column:custom_fields"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Configuration) TableName() string { return "configurations" }

// LineItem is one priced row of a configuration.
type LineItem struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	ConfigurationID snowflake.ID `gorm:"column:configuration_id;not null;index"`

	// ItemRef is the NetSuite item internal id this line maps to.
	ItemRef     string  `gorm:"column:item_ref;type:text;not null"`
	Description *string `gorm:"type:text"`

	Quantity      int64           `gorm:"not null"`
	UnitCost      decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null"`
	TargetMargin  decimal.Decimal `gorm:"column:target_margin;type:numeric(6,4);not null"`
	ProductPrice  decimal.Decimal `gorm:"column:product_price;type:numeric(12,2)"`
	PriceOverride bool            `gorm:"column:price_override;not null;default:false"`
	TariffPercent decimal.Decimal `gorm:"column:tariff_percent;type:numeric(6,2)"`

	// Position keeps display order stable; pricing does not depend on it.
	Position int `gorm:"not null;default:0"`

	CustomColumns datatypes.JSONMap `gorm:"column:custom_columns"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LineItem) TableName() string { return "configuration_line_items" }
