package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeTransaction     = "TRANSACTION_ERROR"
	ErrCodeUpstreamAuth    = "UPSTREAM_AUTH_ERROR"
	ErrCodeNotification    = "NOTIFICATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeEmptyMessage    = "EMPTY_MESSAGE"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
)

// DomainError is a business error carrying a machine readable code.
// Two DomainErrors match under errors.Is when their codes are equal, so
// callers can test against the sentinels below regardless of the message.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error kinds. Concrete errors are created with the constructors below and
// matched with errors.Is against these values.
var (
	ErrValidation   = NewDomainError(ErrCodeValidation, "validation failed")
	ErrTransaction  = NewDomainError(ErrCodeTransaction, "transaction failed")
	ErrUpstreamAuth = NewDomainError(ErrCodeUpstreamAuth, "identity verification failed")
	ErrNotification = NewDomainError(ErrCodeNotification, "notification failed")
	ErrNotFound     = NewDomainError(ErrCodeNotFound, "resource not found")
	ErrEmptyMessage = NewDomainError(ErrCodeEmptyMessage, "no message to send")
	ErrUnauthorised = NewDomainError(ErrCodeUnauthorised, "unauthorized")
)

// Common not-found errors. They match ErrNotFound as well as their own code.
var (
	ErrProductNotFound = &notFound{DomainError{Code: ErrCodeProductNotFound, Message: "product not found"}}
	ErrOrderNotFound   = &notFound{DomainError{Code: ErrCodeOrderNotFound, Message: "order not found"}}
	ErrUserNotFound    = &notFound{DomainError{Code: ErrCodeUserNotFound, Message: "user not found"}}
)

type notFound struct {
	DomainError
}

func (e *notFound) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) && t.Code == ErrCodeNotFound {
		return true
	}
	var nf *notFound
	if errors.As(target, &nf) {
		return nf.Code == e.Code
	}
	return false
}

// NewValidationError reports a missing or malformed input field.
func NewValidationError(message string) error {
	return &DomainError{Code: ErrCodeValidation, Message: message}
}

// NewTransactionError wraps a failure inside an atomic multi-write block.
func NewTransactionError(err error) error {
	return &DomainError{Code: ErrCodeTransaction, Message: "transaction failed", Err: err}
}

// NewUpstreamAuthError wraps a failed identity-provider call.
func NewUpstreamAuthError(err error) error {
	return &DomainError{Code: ErrCodeUpstreamAuth, Message: "identity verification failed", Err: err}
}

// NewNotificationError wraps a failed gateway send.
func NewNotificationError(err error) error {
	return &DomainError{Code: ErrCodeNotification, Message: "notification failed", Err: err}
}
