package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	netsuitedomain "github.com/smallbiznis/quotesync/internal/netsuite/domain"
	submissiondomain "github.com/smallbiznis/quotesync/internal/submission/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts the last gin error into a JSON error
// response after the handler chain has run. Handlers report errors through
// AbortWithError and never write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, submissiondomain.ErrEmptyConfiguration):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "configuration has no line items",
		}
	case errors.Is(err, submissiondomain.ErrMissingExternalReference):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "configuration has no linked estimate",
		}
	case errors.Is(err, netsuitedomain.ErrTimeout):
		return http.StatusGatewayTimeout, errorPayload{
			Type:    "upstream_timeout",
			Message: "netsuite did not respond in time",
		}
	case isRemoteError(err):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: remoteErrorMessage(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isConfigurationValidationError(err):
		return true
	default:
		return false
	}
}

func isConfigurationValidationError(err error) bool {
	switch err {
	case configdomain.ErrInvalidID,
		configdomain.ErrInvalidName,
		configdomain.ErrInvalidItemRef,
		configdomain.ErrInvalidQuantity,
		configdomain.ErrInvalidUnitCost,
		configdomain.ErrInvalidMargin,
		configdomain.ErrInvalidTariff,
		configdomain.ErrInvalidShippingFee:
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, configdomain.ErrNotFound),
		errors.Is(err, configdomain.ErrLineNotFound),
		errors.Is(err, submissiondomain.ErrSubmissionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isRemoteError(err error) bool {
	var remote *netsuitedomain.RemoteError
	return errors.As(err, &remote)
}

func remoteErrorMessage(err error) string {
	var remote *netsuitedomain.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return "upstream request failed"
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_id":
		return "id"
	case "invalid_name":
		return "name"
	case "invalid_item_ref":
		return "item_ref"
	case "invalid_quantity":
		return "quantity"
	case "invalid_unit_cost":
		return "unit_cost"
	case "invalid_margin":
		return "target_margin"
	case "invalid_tariff":
		return "tariff_percent"
	case "invalid_shipping_fee":
		return "shipping_fee"
	default:
		return "request"
	}
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_id":
		return "invalid id"
	case "invalid_name":
		return "name is required"
	case "invalid_item_ref":
		return "item_ref is required"
	case "invalid_quantity":
		return "quantity must be positive"
	case "invalid_unit_cost":
		return "unit_cost must not be negative"
	case "invalid_margin":
		return "target_margin is invalid"
	case "invalid_tariff":
		return "tariff_percent must be between 0 and 100"
	case "invalid_shipping_fee":
		return "shipping_fee must not be negative"
	default:
		return "invalid request"
	}
}
