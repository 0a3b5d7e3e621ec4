package kumiai

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is matched by every *NotImplementedError.
var ErrNotImplemented = errors.New("message not implemented")

// NotImplementedError is returned when a message is dispatched to an object
// whose type has neither a mixin binding nor a default implementation for it.
type NotImplementedError struct {
	Message string // message name
	Type    string // composition, as "{a, b}"
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("kumiai: message %q not implemented for type %s", e.Message, e.Type)
}

// Is makes errors.Is(err, ErrNotImplemented) true.
func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}

// FallbackExhaustedError is the panic value of Call.Next when there is no
// lower bidder left. Handlers should check Call.HasNext or
// TypeInfo.NumImplementers first.
type FallbackExhaustedError struct {
	Message string
	Type    string
}

func (e *FallbackExhaustedError) Error() string {
	return fmt.Sprintf("kumiai: no next bidder for message %q in type %s", e.Message, e.Type)
}
