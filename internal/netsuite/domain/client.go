package domain

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Client is the authenticated NetSuite capability consumed by the submission
// pipeline. Two variants exist, the live signed HTTP client and an in-memory
// mock, selected once at construction and never branched on per call.
type Client interface {
	Search(ctx context.Context, recordType string, query map[string]string) (json.RawMessage, error)
	GetEstimate(ctx context.Context, estimateRef string) (*Estimate, error)
	WriteLines(ctx context.Context, req WriteLinesRequest) (*WriteLinesResponse, error)
}

// Credentials are the token-based-auth values for request signing. They are
// loaded once from process configuration and validated eagerly.
type Credentials struct {
	AccountID      string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
	BaseURL        string
}

func (c Credentials) Validate() error {
	if c.AccountID == "" ||
		c.ConsumerKey == "" ||
		c.ConsumerSecret == "" ||
		c.TokenID == "" ||
		c.TokenSecret == "" ||
		c.BaseURL == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Estimate is the slice of a NetSuite estimate record the configurator needs.
type Estimate struct {
	ID     string          `json:"id"`
	TranID string          `json:"tranId"`
	Status string          `json:"status"`
	Raw    json.RawMessage `json:"-"`
}

// EstimateLine is one line of the wire payload pushed to NetSuite.
type EstimateLine struct {
	ItemID        string          `json:"itemId"`
	Quantity      int64           `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	Description   *string         `json:"description,omitempty"`
	CustomColumns map[string]any  `json:"customColumns,omitempty"`
}

// WriteLinesRequest is the payload for the estimate line write endpoint. The
// remote side treats IdempotencyKey as its own dedup key and honors
// ReplaceLines as delete-then-reinsert of all lines tagged by this
// integration.
type WriteLinesRequest struct {
	EstimateID     string         `json:"estimateId"`
	IdempotencyKey string         `json:"idempotencyKey"`
	ConfigVersion  int64          `json:"configVersion"`
	ReplaceLines   bool           `json:"replaceLines"`
	Lines          []EstimateLine `json:"lines"`
	CustomFields   map[string]any `json:"customFields,omitempty"`
}

type WriteLinesResponse struct {
	ReferenceID string          `json:"referenceId"`
	Raw         json.RawMessage `json:"-"`
}
