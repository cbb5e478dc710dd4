package messaging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/glimte/bossbus-go/contracts"
)

// CommandBus executes commands using their associated handler. Each command
// type is bound to at most one handler.
type CommandBus struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
	logger   *slog.Logger
}

// CommandBusOption configures the CommandBus
type CommandBusOption func(*CommandBus)

// WithCommandBusLogger sets the logger
func WithCommandBusLogger(logger *slog.Logger) CommandBusOption {
	return func(b *CommandBus) {
		b.logger = logger
	}
}

// NewCommandBus creates a new command bus
func NewCommandBus(options ...CommandBusOption) *CommandBus {
	b := &CommandBus{
		handlers: make(map[string]CommandHandler),
		logger:   slog.Default(),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// RegisterHandler binds a handler to a command type. A previous binding for
// the same type is replaced silently. The handler's declared command type
// must match the type being bound.
func (b *CommandBus) RegisterHandler(commandType contracts.Command, handler CommandHandler) error {
	if commandType == nil {
		return ErrNilMessage
	}

	typeName := contracts.MessageName(commandType)
	if err := validateCommandHandler(typeName, handler); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[typeName] = handler

	b.logger.Debug("registered command handler", "commandType", typeName)
	return nil
}

// RemoveHandler removes a previously registered handler.
func (b *CommandBus) RemoveHandler(commandType contracts.Command) error {
	if commandType == nil {
		return ErrNilMessage
	}

	typeName := contracts.MessageName(commandType)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[typeName]; !exists {
		return &MissingHandlerError{Kind: contracts.KindCommand, MessageType: typeName}
	}

	delete(b.handlers, typeName)

	b.logger.Debug("removed command handler", "commandType", typeName)
	return nil
}

// IsRegistered reports whether a handler is bound to the command type.
func (b *CommandBus) IsRegistered(commandType contracts.Command) bool {
	if commandType == nil {
		return false
	}

	typeName := contracts.MessageName(commandType)

	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.handlers[typeName]
	return exists
}

// Execute invokes the command's handler and returns its result. An explicit
// handler may be supplied for commands that are not registered; supplying one
// that differs from an existing registration is an error.
func (b *CommandBus) Execute(ctx context.Context, cmd contracts.Command, explicit ...CommandHandler) (any, error) {
	if cmd == nil {
		return nil, ErrNilMessage
	}

	typeName := contracts.MessageName(cmd)

	if len(explicit) > 1 {
		return nil, &TooManyHandlersError{MessageType: typeName}
	}

	var supplied CommandHandler
	if len(explicit) == 1 {
		supplied = explicit[0]
		if err := validateCommandHandler(typeName, supplied); err != nil {
			return nil, err
		}
	}

	b.mu.RLock()
	registered := b.handlers[typeName]
	b.mu.RUnlock()

	if supplied != nil && registered != nil && !sameHandler(registered, supplied) {
		return nil, &TooManyHandlersError{MessageType: typeName}
	}

	handler := registered
	if handler == nil {
		handler = supplied
	}
	if handler == nil {
		return nil, &MissingHandlerError{Kind: contracts.KindCommand, MessageType: typeName}
	}

	return handler.Handle(ctx, cmd)
}

func validateCommandHandler(typeName string, handler CommandHandler) error {
	if handler == nil {
		return &InvalidHandlerError{MessageType: typeName, Reason: "handler cannot be nil"}
	}
	if handler.CommandType() != typeName {
		return &InvalidHandlerError{HandlerType: handler.CommandType(), MessageType: typeName}
	}
	return nil
}
