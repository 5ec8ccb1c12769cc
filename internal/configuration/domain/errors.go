package domain

import "errors"

var (
	ErrNotFound           = errors.New("configuration_not_found")
	ErrLineNotFound       = errors.New("line_item_not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidItemRef     = errors.New("invalid_item_ref")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidUnitCost    = errors.New("invalid_unit_cost")
	ErrInvalidMargin      = errors.New("invalid_margin")
	ErrInvalidTariff      = errors.New("invalid_tariff")
	ErrInvalidShippingFee = errors.New("invalid_shipping_fee")
)
