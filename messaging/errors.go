package messaging

import (
	"errors"
	"fmt"

	"github.com/glimte/bossbus-go/contracts"
)

var (
	// ErrNilMessage is returned when a nil message or message type is passed
	// to a bus operation.
	ErrNilMessage = errors.New("messaging: message cannot be nil")

	// ErrNoHandlers is returned when AddHandlers is called without handlers.
	ErrNoHandlers = errors.New("messaging: at least one handler is required")
)

// MissingHandlerError indicates that no handler is registered for a message
// type that requires one.
type MissingHandlerError struct {
	Kind        contracts.Kind
	MessageType string
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("no handler has been registered for the %s '%s'", e.Kind, e.MessageType)
}

// TooManyHandlersError indicates that an explicit handler was supplied for a
// command that already has a different registered handler.
type TooManyHandlersError struct {
	MessageType string
}

func (e *TooManyHandlersError) Error() string {
	return fmt.Sprintf("a handler has already been registered for the command '%s'", e.MessageType)
}

// InvalidHandlerError indicates that a handler cannot serve the message type
// it is being bound to.
type InvalidHandlerError struct {
	HandlerType string
	MessageType string
	Reason      string
}

func (e *InvalidHandlerError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid handler for '%s': %s", e.MessageType, e.Reason)
	}
	return fmt.Sprintf("the handler declared for '%s' does not match '%s'", e.HandlerType, e.MessageType)
}
