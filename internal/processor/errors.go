package processor

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource_not_found")
	ErrInvalidParams = errors.New("invalid_params")
)

// Error carries the upstream failure returned by the payment processor.
// Callers surface it with the cause attached; they do not retry.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("processor error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	if target == ErrNotFound {
		return e.Status == 404 || e.Code == "resource_missing"
	}
	return false
}
