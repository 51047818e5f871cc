package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes session storage failures.
	RedisErrorMessage = "session storage is unavailable, please try again later"
	// UpstreamErrorMessage describes reasoning collaborator failures.
	UpstreamErrorMessage = "the trip planner could not reach its language model, please try again later"
	// TimeoutErrorMessage is returned when the request deadline passes.
	TimeoutErrorMessage = "the request took too long, please try again"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapRedis wraps a storage error with a consistent status code and message.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: RedisErrorMessage,
	}
}

// FromError classifies err for an HTTP response. Messages of invalid input
// errors are shown to the caller; everything else gets a fixed message.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return New(err, http.StatusGatewayTimeout, TimeoutErrorMessage)
	case errors.Is(err, context.Canceled):
		return New(err, http.StatusServiceUnavailable, TimeoutErrorMessage)
	}

	switch contractx.KindOf(err) {
	case contractx.KindInvalidInput:
		return New(err, http.StatusBadRequest, err.Error())
	case contractx.KindNotFound:
		return New(err, http.StatusNotFound, err.Error())
	case contractx.KindExternalFailure:
		return New(err, http.StatusBadGateway, UpstreamErrorMessage)
	default:
		return New(err, http.StatusInternalServerError, SystemErrorMessage)
	}
}
