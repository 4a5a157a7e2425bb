// Package apperr описывает ошибки, которые видит клиент GraphQL.
//
// Error хранит вид ошибки и короткое сообщение для клиента, а исходную причину
// держит внутри (для логов). Error() возвращает только публичное сообщение.
package apperr

import "errors"

type Kind string

const (
	Unauthenticated Kind = "UNAUTHENTICATED"
	Forbidden       Kind = "FORBIDDEN"
	InvalidInput    Kind = "BAD_USER_INPUT"
	NotFound        Kind = "NOT_FOUND"
	StoreFailure    Kind = "INTERNAL_SERVER_ERROR"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause возвращает текст исходной ошибки (или пустую строку).
func (e *Error) Cause() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func NewUnauthenticated(cause error) *Error {
	return New(Unauthenticated, "Invalid/Expired token", cause)
}

func NewForbidden(message string) *Error {
	return New(Forbidden, message, nil)
}

func NewInvalidInput(message string, cause error) *Error {
	return New(InvalidInput, message, cause)
}

func NewNotFound(message string, cause error) *Error {
	return New(NotFound, message, cause)
}

// NewStoreFailure сохраняет текст ошибки хранилища в сообщении: клиент получает его как есть.
func NewStoreFailure(cause error) *Error {
	return New(StoreFailure, cause.Error(), cause)
}

// KindOf возвращает вид ошибки; для ошибок без вида - StoreFailure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return StoreFailure
}
