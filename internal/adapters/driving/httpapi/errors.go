package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/services"
	"github.com/custodia-labs/finqa/internal/logger"
)

// Error is the JSON body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an API error.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// ErrBadRequest is returned for bodies that cannot be decoded.
func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid JSON request")
}

// ErrNoFile is returned when the multipart form has no file part.
func ErrNoFile() Error {
	return NewError(fiber.StatusBadRequest, "No file provided.")
}

// ValidationError reports per-field failures.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError creates a 422 validation error.
func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errs,
	}
}

// ErrorHandler converts handler errors into JSON responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var uploadErr *domain.ValidationError
	if errors.As(err, &uploadErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(
			NewValidationError(map[string]string{uploadErr.Field: uploadErr.Reason}),
		)
	}

	apiErr = toError(err)
	if apiErr.Code >= fiber.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Method(), c.Path(), err)
	} else {
		logger.Debug("%s %s: %d %s", c.Method(), c.Path(), apiErr.Code, apiErr.Message)
	}
	return c.Status(apiErr.Code).JSON(apiErr)
}

// toError maps domain and fiber errors to status codes.
func toError(err error) Error {
	var fErr *fiber.Error
	switch {
	case errors.As(err, &fErr):
		return NewError(fErr.Code, fErr.Message)
	case errors.Is(err, domain.ErrParse):
		return NewError(fiber.StatusBadRequest, "Error processing document: "+err.Error())
	case errors.Is(err, domain.ErrNoDocument):
		return NewError(fiber.StatusConflict, services.NoDocumentMessage)
	case errors.Is(err, domain.ErrRateLimited):
		return NewError(fiber.StatusTooManyRequests, services.RateLimitedMessage)
	case errors.Is(err, domain.ErrInvalidInput):
		return NewError(fiber.StatusBadRequest, err.Error())
	default:
		return NewError(fiber.StatusInternalServerError, err.Error())
	}
}
