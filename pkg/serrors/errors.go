package serrors

import "fmt"

// Base is a coded error suitable for mapping onto API responses.
type Base struct {
	Code    string
	Message string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) *Base {
	return &Base{Code: code, Message: message}
}

func NewErrorf(code, format string, args ...any) *Base {
	return &Base{Code: code, Message: fmt.Sprintf(format, args...)}
}
