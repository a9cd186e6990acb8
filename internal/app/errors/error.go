package errors

import (
	stderrors "errors"
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUpstream        Kind = "UPSTREAM"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindForbidden       Kind = "FORBIDDEN"
	KindTooManyRequests Kind = "TOO_MANY_REQUESTS"
	KindInternal        Kind = "INTERNAL"
)

type AppError struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Fields carries structured detail surfaced to the caller next to Message.
	Fields map[string]any
}

func (e *AppError) Error() string {
	return e.Message
}

// With returns a copy of the error with an extra structured field.
func (e *AppError) With(key string, value any) *AppError {
	fields := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[key] = value

	return &AppError{
		Kind:       e.Kind,
		StatusCode: e.StatusCode,
		Message:    e.Message,
		Fields:     fields,
	}
}

func NewAppError(kind Kind, statusCode int, message string) *AppError {
	return &AppError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewValidationError(message string) *AppError {
	return NewAppError(KindValidation, http.StatusBadRequest, message)
}

// NewBadRequestError is kept for request-shape failures (unparsable ids, bodies).
func NewBadRequestError(message string) *AppError {
	return NewValidationError(message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(KindUnauthorized, http.StatusUnauthorized, message[0])
	}
	return NewAppError(KindUnauthorized, http.StatusUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(KindForbidden, http.StatusForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(KindNotFound, http.StatusNotFound, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(KindConflict, http.StatusConflict, message)
}

func NewUpstreamError(message string) *AppError {
	if message == "" {
		message = "Upstream service failed"
	}
	return NewAppError(KindUpstream, http.StatusBadGateway, message)
}

func NewTooManyRequestsError(message string, limit int, reset int64) *AppError {
	return NewAppError(KindTooManyRequests, http.StatusTooManyRequests, message).
		With("limit", limit).
		With("reset", reset)
}

func NewInternalServerError(originalError error, message string) *AppError {
	if originalError != nil {
		logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	}
	return NewAppError(KindInternal, http.StatusInternalServerError, message)
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
