package serrors

import "fmt"

// Base is a coded error shared across services and API responses.
type Base struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *Base {
	return &Base{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func (e *Base) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func (e *Base) WithDetails(details string) *Base {
	return &Base{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}
