package engine

import (
	"errors"
	"fmt"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeUnknownSchema    = "UNKNOWN_SCHEMA"
	CodeInternal         = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string        `json:"code"`
	Status  int           `json:"-"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	msg := e.Message + ":"
	for i, d := range e.Details {
		if i > 0 {
			msg += ";"
		}
		if d.Field != "" {
			msg += " " + d.Field + ":"
		}
		msg += " " + d.Message
	}
	return msg
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func UnknownSchemaError(name string) *AppError {
	return &AppError{
		Code:    CodeUnknownSchema,
		Status:  404,
		Message: fmt.Sprintf("Unknown schema: %s", name),
	}
}

func InvalidPayloadError(msg string) *AppError {
	return &AppError{
		Code:    CodeInvalidPayload,
		Status:  400,
		Message: msg,
	}
}

func ValidationError(details []ErrorDetail) *AppError {
	return &AppError{
		Code:    CodeValidationFailed,
		Status:  422,
		Message: "Validation failed",
		Details: details,
	}
}

// IsValidationError reports whether err carries a VALIDATION_FAILED AppError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeValidationFailed
}
