package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	organizationdomain "github.com/openjass/aquanet/internal/organization/domain"
	reportdomain "github.com/openjass/aquanet/internal/report/domain"
	transferdomain "github.com/openjass/aquanet/internal/transfer/domain"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
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
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

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
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
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
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictErrorMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, reportdomain.ErrTotalFailure):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "report generation failed",
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
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, waterboxdomain.ErrInvalidOrganization),
		errors.Is(err, waterboxdomain.ErrInvalidCode),
		errors.Is(err, waterboxdomain.ErrInvalidStatus),
		errors.Is(err, waterboxdomain.ErrInvalidID),
		errors.Is(err, assignmentdomain.ErrInvalidWaterBox),
		errors.Is(err, assignmentdomain.ErrInvalidUser),
		errors.Is(err, assignmentdomain.ErrInvalidFee),
		errors.Is(err, assignmentdomain.ErrInvalidID),
		errors.Is(err, transferdomain.ErrInvalidWaterBox),
		errors.Is(err, transferdomain.ErrInvalidUser),
		errors.Is(err, transferdomain.ErrInvalidFee),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, reportdomain.ErrMissingLookup):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, waterboxdomain.ErrCodeExists),
		errors.Is(err, assignmentdomain.ErrAlreadyAssigned),
		errors.Is(err, assignmentdomain.ErrAlreadyClosed),
		errors.Is(err, transferdomain.ErrNoActiveAssignment),
		errors.Is(err, transferdomain.ErrSameUser):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, waterboxdomain.ErrNotFound),
		errors.Is(err, assignmentdomain.ErrNotFound),
		errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func conflictErrorMessage(err error) string {
	switch {
	case errors.Is(err, waterboxdomain.ErrCodeExists):
		return "water box code already exists"
	case errors.Is(err, assignmentdomain.ErrAlreadyAssigned):
		return "water box already has an active assignment"
	case errors.Is(err, assignmentdomain.ErrAlreadyClosed):
		return "assignment already closed"
	case errors.Is(err, transferdomain.ErrNoActiveAssignment):
		return "water box has no active assignment"
	case errors.Is(err, transferdomain.ErrSameUser):
		return "transfer target is the current holder"
	default:
		return "conflict"
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "missing_lookup":
		return "missing lookup function"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog mirrors mapError for the request log fields.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case err == nil:
		return "", ""
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation_error", validationErrorCode(err)
	case isConflictError(err):
		return "conflict", err.Error()
	case isNotFoundError(err):
		return "not_found", "not_found"
	case errors.Is(err, reportdomain.ErrTotalFailure):
		return "service_unavailable", "report_generation_failed"
	default:
		return "internal_error", "internal_error"
	}
}
