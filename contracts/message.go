package contracts

import (
	"reflect"
	"time"
)

// Kind discriminates the broad category of a message. It drives the verb
// choice in automated log output and the single/multi handler semantics of
// the buses.
type Kind string

const (
	// KindCommand marks messages with single-handler semantics and a result.
	KindCommand Kind = "command"
	// KindEvent marks messages with multi-handler, fire-and-forget semantics.
	KindEvent Kind = "event"
	// KindMessage marks messages that are neither commands nor events.
	KindMessage Kind = "message"
)

// Message is the base interface for all messages
type Message interface {
	GetID() string
	GetTimestamp() time.Time
	GetCorrelationID() string
	SetCorrelationID(correlationID string)
	Kind() Kind
}

// Command represents an action to be performed. A command is executed by
// exactly one handler and may produce a result.
type Command interface {
	Message
	commandMessage()
}

// Event represents something that has happened. An event may be dispatched
// to any number of handlers; results are discarded.
type Event interface {
	Message
	eventMessage()
}

// MessageName returns the concrete type name of a message, used for registry
// keys and log output.
func MessageName(msg Message) string {
	if msg == nil {
		return ""
	}

	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	// Anonymous struct types have no name.
	return t.String()
}
