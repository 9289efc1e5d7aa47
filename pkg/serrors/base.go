package serrors

import "fmt"

// BaseError is a structured error with a stable machine-readable code and a
// human-readable message. Callers match on Code, presentation layers render
// Message.
type BaseError struct {
	Code    string
	Message string
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

// NewErrorf formats the message with fmt.Sprintf.
func NewErrorf(code, format string, args ...any) *BaseError {
	return &BaseError{Code: code, Message: fmt.Sprintf(format, args...)}
}
