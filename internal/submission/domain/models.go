package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of one submission record.
//
// NO_SUBMISSION -> IN_PROGRESS -> {SUCCESS | FAILED}; FAILED -> IN_PROGRESS
// is a valid transition (user-driven re-submit). SUCCESS is terminal for a
// given (configuration, version) pair.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusSuccess    Status = "SUCCESS"
	StatusFailed     Status = "FAILED"
)

// Submission is the durable record of one (configuration, version) push to
// NetSuite. The unique index on IdempotencyKey is the correctness mechanism
// for concurrent submits of the same version: at most one row per key ever
// exists, and the conditional claim in the repository serializes writers
// behind it.
type Submission struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	ConfigurationID snowflake.ID `gorm:"column:configuration_id;not null;index"`
	ConfigVersion   int64        `gorm:"column:config_version;not null"`
	IdempotencyKey  string       `gorm:"column:idempotency_key;type:text;not null;uniqueIndex"`

	Status   Status `gorm:"type:text;not null"`
	Attempts int    `gorm:"not null;default:1"`

	RequestPayload  datatypes.JSON `gorm:"column:request_payload"`
	ResponsePayload datatypes.JSON `gorm:"column:response_payload"`
	ErrorMessage    *string        `gorm:"column:error_message;type:text"`

	// NetSuiteRef is the remote reference id returned on success.
	NetSuiteRef *string `gorm:"column:netsuite_ref;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Submission) TableName() string { return "submissions" }

// IdempotencyKey derives the deterministic key for one configuration
// snapshot. The version counter, not a timestamp, identifies the snapshot.
func IdempotencyKey(configID snowflake.ID, version int64) string {
	return fmt.Sprintf("%s_v%d", configID.String(), version)
}
