package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses, batch results and internal error handling.
const (
	ErrCodeForbidden    = "UPSTREAM_FORBIDDEN"
	ErrCodeTimeout      = "UPSTREAM_TIMEOUT"
	ErrCodeUnreachable  = "UPSTREAM_UNREACHABLE"
	ErrCodeUpstream     = "UPSTREAM_ERROR"
	ErrCodeDuplicate    = "DUPLICATE_RECORD"
	ErrCodeInvalidURL   = "INVALID_URL_SCHEME"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Error kinds exposed to callers of the single-URL extraction entry point.
const (
	KindForbidden = "forbidden"
	KindTimeout   = "timeout"
	KindNetwork   = "network"
	KindOther     = "other"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// ExtractError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ExtractError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Kind groups the error code into the coarse categories callers branch on.
func (e *ExtractError) Kind() string {
	switch e.Code {
	case ErrCodeForbidden:
		return KindForbidden
	case ErrCodeTimeout:
		return KindTimeout
	case ErrCodeUnreachable:
		return KindNetwork
	default:
		return KindOther
	}
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ExtractError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Kind: e.Kind(), Message: e.Message}
}

// AsExtractError unwraps err into an *ExtractError, wrapping unknown errors
// as ErrCodeInternal so callers always get a code.
func AsExtractError(err error) *ExtractError {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee
	}
	return NewExtractError(ErrCodeInternal, err.Error(), err)
}

// HasCode reports whether err (or anything it wraps) is an ExtractError with the given code.
func HasCode(err error, code string) bool {
	var ee *ExtractError
	return errors.As(err, &ee) && ee.Code == code
}
