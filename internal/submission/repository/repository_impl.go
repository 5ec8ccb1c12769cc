package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	submissiondomain "github.com/smallbiznis/quotesync/internal/submission/domain"
	"github.com/smallbiznis/quotesync/pkg/db"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) submissiondomain.Repository {
	return &repo{db: conn}
}

func (r *repo) FindByKey(ctx context.Context, key string) (*submissiondomain.Submission, error) {
	var sub submissiondomain.Submission
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) ListByConfiguration(ctx context.Context, configID snowflake.ID) ([]submissiondomain.Submission, error) {
	var subs []submissiondomain.Submission
	err := r.db.WithContext(ctx).
		Where("configuration_id = ?", configID).
		Order("config_version DESC").
		Find(&subs).Error
	return subs, err
}

// Claim inserts sub or, when the unique constraint fires, performs the
// conditional in-place reset. The constraint, not application logic, is
// what arbitrates two submits racing on the same idempotency key: the second
// writer either sees the winner's SUCCESS row or serializes behind its
// row-level update.
func (r *repo) Claim(ctx context.Context, sub *submissiondomain.Submission) (*submissiondomain.Submission, bool, error) {
	err := r.db.WithContext(ctx).Create(sub).Error
	if err == nil {
		return sub, true, nil
	}
	if !db.IsDuplicateKeyErr(err) {
		return nil, false, err
	}

	// A row for this key exists. Reset it to IN_PROGRESS unless it already
	// finished successfully; the WHERE clause makes the write conditional,
	// so a concurrent SUCCESS can never be overwritten.
	result := r.db.WithContext(ctx).Exec(
		`UPDATE submissions
		 SET status = ?, attempts = attempts + 1, error_message = NULL, updated_at = ?
		 WHERE idempotency_key = ? AND status <> ?`,
		submissiondomain.StatusInProgress,
		time.Now().UTC(),
		sub.IdempotencyKey,
		submissiondomain.StatusSuccess,
	)
	if result.Error != nil {
		return nil, false, result.Error
	}

	existing, findErr := r.FindByKey(ctx, sub.IdempotencyKey)
	if findErr != nil {
		return nil, false, findErr
	}
	if existing == nil {
		return nil, false, submissiondomain.ErrSubmissionNotFound
	}
	return existing, result.RowsAffected > 0, nil
}

func (r *repo) SavePayload(ctx context.Context, id snowflake.ID, payload []byte) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE submissions SET request_payload = ?, updated_at = ? WHERE id = ?`,
		payload,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) MarkSuccess(ctx context.Context, id snowflake.ID, response []byte, remoteRef string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE submissions
		 SET status = ?, response_payload = ?, netsuite_ref = ?, error_message = NULL, updated_at = ?
		 WHERE id = ?`,
		submissiondomain.StatusSuccess,
		response,
		remoteRef,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) MarkFailed(ctx context.Context, id snowflake.ID, message string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE submissions
		 SET status = ?, error_message = ?, updated_at = ?
		 WHERE id = ?`,
		submissiondomain.StatusFailed,
		message,
		time.Now().UTC(),
		id,
	).Error
}
