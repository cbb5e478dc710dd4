package contracts

import "time"

// Loggable is satisfied by messages that opt into automated logging around
// handling. Embed LoggingMessage to mark a message type.
type Loggable interface {
	loggableMessage()
}

// LoggingMessage marks a message for automated log output before, after, and
// on failed handling.
type LoggingMessage struct{}

func (LoggingMessage) loggableMessage() {}

// Lockable is satisfied by messages that must be handled to completion before
// other lockable messages may be handled. Embed LockingMessage to mark a
// message type.
type Lockable interface {
	lockableMessage()

	// LockTimeout returns the maximum time other callers wait for the lock
	// while this message is being handled. Zero means the locker default.
	LockTimeout() time.Duration
}

// LockingMessage marks a message for serialized handling. Declare a
// LockTimeout method on the embedding type to override the locker's default
// wait.
type LockingMessage struct{}

func (LockingMessage) lockableMessage() {}

// LockTimeout returns zero, which selects the locker's default timeout.
func (LockingMessage) LockTimeout() time.Duration {
	return 0
}
