/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go
error interface and carries a business code, an error kind, a user-facing
message, and an HTTP status code for unified error reporting.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aizatop/alive/internal/pkg/logx"
)

// Kind classifies an error into the closed set the flows switch on.
// Flows never inspect message text; they branch on Kind or Code.
type Kind string

const (
	// KindValidation marks errors caught before any network call. Always
	// locally recoverable, never logged.
	KindValidation Kind = "validation"

	// KindAuth marks identity and credential errors surfaced to the user.
	KindAuth Kind = "auth"

	// KindData marks row CRUD failures. Surfaced for user-initiated
	// actions, silently logged for background writes.
	KindData Kind = "data"

	// KindTransport marks network and subscription failures.
	KindTransport Kind = "transport"
)

// CustomError is the custom error structure used throughout the application.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Kind is the error classification.
	Kind Kind

	// Message is the user-friendly error description.
	Message string

	// Status is the HTTP status code corresponding to this error.
	Status int
}

// Error implements the standard Go error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError constructs a *CustomError from a predefined error code. The
// optional details are printf-style arguments for the message template.
// An unknown code falls back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &unknownErr
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if code == ErrUnknown && len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(originalErr, "Handling ErrUnknown with underlying error")
		}
	} else if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn("Details provided for error, but message template has no formatting placeholders. Details ignored.")
		}
	}

	return &customErr
}

// FromResponse rebuilds a *CustomError from a code and message received over
// the wire. Known codes keep their kind and status; unknown codes pass the
// backend message through verbatim as data errors so the UI can show it.
func FromResponse(code int, message string) *CustomError {
	if templateErr, ok := errorMap[code]; ok {
		customErr := templateErr
		if customErr.Status == 0 {
			customErr.Status = http.StatusOK
		}
		if message != "" {
			customErr.Message = message
		}
		return &customErr
	}

	return &CustomError{
		Code:    code,
		Kind:    KindData,
		Message: message,
		Status:  http.StatusOK,
	}
}
