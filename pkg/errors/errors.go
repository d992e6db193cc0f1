package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeAuth         ErrorType = "auth"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeServerError  ErrorType = "server_error"
	ErrorTypeAPI          ErrorType = "api"
	ErrorTypeAccessDenied ErrorType = "access_denied"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error represents a remote API error with type information.
// Code is the HTTP status (0 for transport failures), APICode is the
// error code reported inside the response body, if any.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	APICode int
}

func (e *Error) Error() string {
	if e.APICode != 0 {
		return fmt.Sprintf("%s error (api code %d): %s", e.Type, e.APICode, e.Message)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates an error of the given type
func New(errorType ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// TypeOf returns the type of the first *Error in err's chain,
// or ErrorTypeUnknown when there is none
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}

// IsAccessDenied reports whether err means the caller may not see the resource
func IsAccessDenied(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeAccessDenied
}

// IsNetwork reports whether err is a transport-level failure
func IsNetwork(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeNetwork
}

// FromStatusCode maps an HTTP status code to an error type
func FromStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuth
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
