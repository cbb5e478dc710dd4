package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type plainMessage struct {
	BaseMessage
}

type createOrder struct {
	BaseCommand
	OrderID string
}

type orderCreated struct {
	BaseEvent
	OrderID string
}

type auditedCommand struct {
	BaseCommand
	LoggingMessage
}

type serialCommand struct {
	BaseCommand
	LockingMessage
}

type slowSerialCommand struct {
	BaseCommand
	LockingMessage
}

func (slowSerialCommand) LockTimeout() time.Duration {
	return 250 * time.Millisecond
}

func TestBaseMessage(t *testing.T) {
	t.Run("NewBaseMessage generates ID and timestamp", func(t *testing.T) {
		before := time.Now().UTC()
		msg := NewBaseMessage()

		assert.NotEmpty(t, msg.GetID())
		assert.False(t, msg.GetTimestamp().Before(before))
		assert.Empty(t, msg.GetCorrelationID())
	})

	t.Run("messages get unique IDs", func(t *testing.T) {
		first := NewBaseMessage()
		second := NewBaseMessage()

		assert.NotEqual(t, first.GetID(), second.GetID())
	})

	t.Run("SetCorrelationID updates the message", func(t *testing.T) {
		msg := &plainMessage{BaseMessage: NewBaseMessage()}
		msg.SetCorrelationID("corr-1")

		assert.Equal(t, "corr-1", msg.GetCorrelationID())
	})
}

func TestKind(t *testing.T) {
	t.Run("plain messages are KindMessage", func(t *testing.T) {
		assert.Equal(t, KindMessage, (&plainMessage{}).Kind())
	})

	t.Run("commands are KindCommand", func(t *testing.T) {
		var msg Message = &createOrder{BaseCommand: NewBaseCommand()}
		assert.Equal(t, KindCommand, msg.Kind())
	})

	t.Run("events are KindEvent", func(t *testing.T) {
		var msg Message = &orderCreated{BaseEvent: NewBaseEvent()}
		assert.Equal(t, KindEvent, msg.Kind())
	})

	t.Run("embedding BaseCommand satisfies Command", func(t *testing.T) {
		var msg Message = &createOrder{}
		_, ok := msg.(Command)
		assert.True(t, ok)
		_, isEvent := msg.(Event)
		assert.False(t, isEvent)
	})
}

func TestMessageName(t *testing.T) {
	t.Run("derives the concrete type name", func(t *testing.T) {
		assert.Equal(t, "createOrder", MessageName(&createOrder{}))
		assert.Equal(t, "orderCreated", MessageName(&orderCreated{}))
	})

	t.Run("anonymous struct types fall back to the full type string", func(t *testing.T) {
		first := &struct {
			BaseCommand
			ID string
		}{}
		second := &struct {
			BaseCommand
			Count int
		}{}

		assert.NotEmpty(t, MessageName(first))
		assert.NotEmpty(t, MessageName(second))
		assert.NotEqual(t, MessageName(first), MessageName(second))
	})

	t.Run("nil message has no name", func(t *testing.T) {
		assert.Equal(t, "", MessageName(nil))
	})
}

func TestMarkers(t *testing.T) {
	t.Run("LoggingMessage satisfies Loggable", func(t *testing.T) {
		var msg Message = &auditedCommand{}
		_, ok := msg.(Loggable)
		assert.True(t, ok)
	})

	t.Run("unmarked messages are not Loggable", func(t *testing.T) {
		var msg Message = &createOrder{}
		_, ok := msg.(Loggable)
		assert.False(t, ok)
	})

	t.Run("LockingMessage satisfies Lockable with default timeout", func(t *testing.T) {
		var msg Message = &serialCommand{}
		lockable, ok := msg.(Lockable)
		assert.True(t, ok)
		assert.Equal(t, time.Duration(0), lockable.LockTimeout())
	})

	t.Run("embedding type can override LockTimeout", func(t *testing.T) {
		var msg Message = &slowSerialCommand{}
		lockable, ok := msg.(Lockable)
		assert.True(t, ok)
		assert.Equal(t, 250*time.Millisecond, lockable.LockTimeout())
	})
}
