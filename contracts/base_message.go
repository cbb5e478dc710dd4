package contracts

import (
	"time"

	"github.com/google/uuid"
)

// BaseMessage provides common fields for all message types. Embed it in a
// concrete message struct to satisfy the Message interface.
type BaseMessage struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

// NewBaseMessage creates a new base message with a generated ID and the
// current timestamp.
func NewBaseMessage() BaseMessage {
	return BaseMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}
}

// GetID returns the message ID
func (m BaseMessage) GetID() string {
	return m.ID
}

// GetTimestamp returns the message timestamp
func (m BaseMessage) GetTimestamp() time.Time {
	return m.Timestamp
}

// GetCorrelationID returns the correlation ID
func (m BaseMessage) GetCorrelationID() string {
	return m.CorrelationID
}

// SetCorrelationID sets the correlation ID
func (m *BaseMessage) SetCorrelationID(correlationID string) {
	m.CorrelationID = correlationID
}

// Kind returns KindMessage. Command and event embeddables override it.
func (m BaseMessage) Kind() Kind {
	return KindMessage
}

// BaseCommand provides common fields for command messages. Embedding it makes
// a struct satisfy the Command interface.
type BaseCommand struct {
	BaseMessage
}

// NewBaseCommand creates a new command with a generated ID and the current
// timestamp.
func NewBaseCommand() BaseCommand {
	return BaseCommand{BaseMessage: NewBaseMessage()}
}

// Kind returns KindCommand
func (c BaseCommand) Kind() Kind {
	return KindCommand
}

func (c BaseCommand) commandMessage() {}

// BaseEvent provides common fields for event messages. Embedding it makes a
// struct satisfy the Event interface.
type BaseEvent struct {
	BaseMessage
}

// NewBaseEvent creates a new event with a generated ID and the current
// timestamp.
func NewBaseEvent() BaseEvent {
	return BaseEvent{BaseMessage: NewBaseMessage()}
}

// Kind returns KindEvent
func (e BaseEvent) Kind() Kind {
	return KindEvent
}

func (e BaseEvent) eventMessage() {}
