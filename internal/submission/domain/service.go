package domain

import (
	"context"
	"time"
)

// Service is the single entry point for pushing a configuration to NetSuite.
// Consumers call it once per user "Submit" action; repeating the call for an
// unchanged configuration version is free and side-effect-free.
type Service interface {
	SubmitConfiguration(ctx context.Context, configID string) (*Response, error)
	List(ctx context.Context, configID string) ([]Response, error)
}

type Response struct {
	ID              string    `json:"id"`
	ConfigurationID string    `json:"configuration_id"`
	ConfigVersion   int64     `json:"config_version"`
	IdempotencyKey  string    `json:"idempotency_key"`
	Status          Status    `json:"status"`
	Attempts        int       `json:"attempts"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	NetSuiteRef     *string   `json:"netsuite_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewResponse maps a stored submission onto the API shape.
func NewResponse(sub *Submission) *Response {
	return &Response{
		ID:              sub.ID.String(),
		ConfigurationID: sub.ConfigurationID.String(),
		ConfigVersion:   sub.ConfigVersion,
		IdempotencyKey:  sub.IdempotencyKey,
		Status:          sub.Status,
		Attempts:        sub.Attempts,
		ErrorMessage:    sub.ErrorMessage,
		NetSuiteRef:     sub.NetSuiteRef,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}
