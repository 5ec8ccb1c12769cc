package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository persists configurations and their line items. Every mutating
// call that changes submittable state must bump the configuration version in
// the same transaction; the version bump is never a separate step.
type Repository interface {
	Create(ctx context.Context, cfg *Configuration, lines []LineItem) error
	FindByID(ctx context.Context, id snowflake.ID) (*Configuration, error)
	ListLineItems(ctx context.Context, configID snowflake.ID) ([]LineItem, error)
	FindLineItem(ctx context.Context, configID, lineID snowflake.ID) (*LineItem, error)

	AddLineItem(ctx context.Context, configID snowflake.ID, line *LineItem) error
	UpdateLineItem(ctx context.Context, configID snowflake.ID, line *LineItem) error
	DeleteLineItem(ctx context.Context, configID, lineID snowflake.ID) error
	UpdateFields(ctx context.Context, configID snowflake.ID, fields map[string]any) error

	// UpdateStatus records the submission outcome. It intentionally does not
	// bump the version: a failed submit stays retryable under the same key.
	UpdateStatus(ctx context.Context, configID snowflake.ID, status ConfigStatus, lastError *string) error
}
