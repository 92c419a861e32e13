package model

import "errors"

// Виды ошибок, которые видит пользователь
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrNetwork    = errors.New("network error")
)

// Error несёт вид ошибки, сообщение для пользователя и исходную причину.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap позволяет errors.Is находить как вид ошибки, так и причину.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewValidationError создаёт ошибку ввода, найденную до сетевого вызова.
func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// NewNotFoundError: бэкенд не знает такой короткий код.
func NewNotFoundError(msg string, err error) *Error {
	return &Error{Kind: ErrNotFound, Message: msg, Err: err}
}

// NewNetworkError оборачивает сбой соединения или неожиданный статус.
func NewNetworkError(msg string, err error) *Error {
	return &Error{Kind: ErrNetwork, Message: msg, Err: err}
}

const fallbackMessage = "Something went wrong. Please try again."

// UserMessage возвращает единственную строку, которую можно показать пользователю.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallbackMessage
}
