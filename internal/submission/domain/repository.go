package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository persists submission records. Claim must be atomic under the
// idempotency-key unique constraint so that two racing submits of the same
// version serialize onto one row.
type Repository interface {
	FindByKey(ctx context.Context, key string) (*Submission, error)
	ListByConfiguration(ctx context.Context, configID snowflake.ID) ([]Submission, error)

	// Claim inserts sub, or, when a row for the key already exists, resets
	// it to IN_PROGRESS with an incremented attempt counter and a cleared
	// error. It returns the live row and claimed=false when the existing row
	// is terminal SUCCESS (the caller must short-circuit without side
	// effects).
	Claim(ctx context.Context, sub *Submission) (*Submission, bool, error)

	// SavePayload stores the freshly built request payload on the row before
	// any network call is made (audit trail).
	SavePayload(ctx context.Context, id snowflake.ID, payload []byte) error

	MarkSuccess(ctx context.Context, id snowflake.ID, response []byte, remoteRef string) error
	MarkFailed(ctx context.Context, id snowflake.ID, message string) error
}
