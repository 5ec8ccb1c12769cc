package domain

import "errors"

var (
	ErrEmptyConfiguration       = errors.New("empty_configuration")
	ErrMissingExternalReference = errors.New("missing_external_reference")
	ErrSubmissionNotFound       = errors.New("submission_not_found")
)
