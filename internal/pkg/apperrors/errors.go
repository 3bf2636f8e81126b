package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrInvokeFailed   ErrorType = "INVOKE_FAILED"
	ErrQueryFailed    ErrorType = "QUERY_FAILED"
	ErrKeygenFailed   ErrorType = "KEYGEN_FAILED"
	ErrInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrNotFound       ErrorType = "NOT_FOUND"
	ErrInternal       ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the harness
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func NewInvokeFailed(msg string, cause error) *AppError {
	return New(ErrInvokeFailed, msg, cause)
}

func NewQueryFailed(msg string, cause error) *AppError {
	return New(ErrQueryFailed, msg, cause)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvokeFailed, ErrQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrInvokeFailed:
		return "Check peer/orderer endpoints and MSP environment."
	case ErrQueryFailed:
		return "Check peer endpoint; the shadow value was used instead."
	case ErrKeygenFailed:
		return "Retry; key generation is one-shot per participant."
	default:
		return ""
	}
}
