package bossbus

import (
	"context"
	"log/slog"

	"github.com/glimte/bossbus-go/contracts"
	"github.com/glimte/bossbus-go/loader"
	"github.com/glimte/bossbus-go/messaging"
	"github.com/glimte/bossbus-go/middleware"
)

// MessageBus is the public entry point. It forwards commands and events to
// their buses through the configured middleware chain, and loads handlers
// supplied as constructor functions through its dependency provider.
type MessageBus struct {
	provider   loader.Provider
	commandBus *messaging.CommandBus
	eventBus   *messaging.EventBus
	middleware []middleware.Middleware
	logger     *slog.Logger
}

// Option configures the MessageBus
type Option func(*MessageBus)

// WithLogger sets the logger used by the bus and its default middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(b *MessageBus) {
		b.logger = logger
	}
}

// WithProvider sets the dependency provider used to load handlers.
func WithProvider(provider loader.Provider) Option {
	return func(b *MessageBus) {
		b.provider = provider
	}
}

// WithMiddleware sets the middleware chain, outermost first. Configuring any
// middleware replaces the default chain.
func WithMiddleware(middlewares ...middleware.Middleware) Option {
	return func(b *MessageBus) {
		b.middleware = middlewares
	}
}

// WithCommandBus sets the command bus
func WithCommandBus(bus *messaging.CommandBus) Option {
	return func(b *MessageBus) {
		b.commandBus = bus
	}
}

// WithEventBus sets the event bus
func WithEventBus(bus *messaging.EventBus) Option {
	return func(b *MessageBus) {
		b.eventBus = bus
	}
}

// New creates a MessageBus. By default it logs through slog.Default, runs a
// MessageLogger middleware, and resolves handler constructors with an
// Instantiator that has the bus itself registered as a dependency.
func New(options ...Option) *MessageBus {
	b := &MessageBus{}

	for _, opt := range options {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.commandBus == nil {
		b.commandBus = messaging.NewCommandBus(messaging.WithCommandBusLogger(b.logger))
	}
	if b.eventBus == nil {
		b.eventBus = messaging.NewEventBus(messaging.WithEventBusLogger(b.logger))
	}
	if b.middleware == nil {
		b.middleware = []middleware.Middleware{middleware.NewMessageLogger(b.logger)}
	}
	if b.provider == nil {
		b.provider = loader.NewInstantiator()
	}
	if inst, ok := b.provider.(*loader.Instantiator); ok {
		inst.AddDependency(b)
	}

	return b
}

// Execute forwards a command through the middleware chain to the command bus
// and returns the handler's result. An explicit handler may be supplied for
// commands without a registered one.
func (b *MessageBus) Execute(ctx context.Context, cmd contracts.Command, handler ...messaging.CommandHandler) (any, error) {
	terminal := func(ctx context.Context, msg contracts.Message) (any, error) {
		return b.commandBus.Execute(ctx, msg.(contracts.Command), handler...)
	}

	return middleware.Chain(terminal, b.middleware...)(ctx, cmd)
}

// Dispatch forwards an event through the middleware chain to the event bus.
// Ad hoc handlers run after the registered ones.
func (b *MessageBus) Dispatch(ctx context.Context, event contracts.Event, handlers ...messaging.EventHandler) error {
	terminal := func(ctx context.Context, msg contracts.Message) (any, error) {
		return nil, b.eventBus.Dispatch(ctx, msg.(contracts.Event), handlers...)
	}

	_, err := middleware.Chain(terminal, b.middleware...)(ctx, event)
	return err
}

// RegisterCommand binds a handler to a command type. The handler may be a
// messaging.CommandHandler instance or a constructor function for one, which
// is resolved through the bus's dependency provider.
func (b *MessageBus) RegisterCommand(commandType contracts.Command, handler any) error {
	loaded, err := b.loadCommandHandler(commandType, handler)
	if err != nil {
		return err
	}
	return b.commandBus.RegisterHandler(commandType, loaded)
}

// RegisterEvent appends handlers to an event type. Each handler may be a
// messaging.EventHandler instance or a constructor function for one.
func (b *MessageBus) RegisterEvent(eventType contracts.Event, handlers ...any) error {
	loaded, err := b.loadEventHandlers(eventType, handlers)
	if err != nil {
		return err
	}
	return b.eventBus.AddHandlers(eventType, loaded...)
}

// DeregisterCommand removes the handler bound to a command type.
func (b *MessageBus) DeregisterCommand(commandType contracts.Command) error {
	return b.commandBus.RemoveHandler(commandType)
}

// DeregisterEvent removes event handlers. With none given, every handler for
// the type is removed.
func (b *MessageBus) DeregisterEvent(eventType contracts.Event, handlers ...any) error {
	if len(handlers) == 0 {
		return b.eventBus.RemoveHandlers(eventType)
	}

	loaded, err := b.loadEventHandlers(eventType, handlers)
	if err != nil {
		return err
	}
	return b.eventBus.RemoveHandlers(eventType, loaded...)
}

// IsRegistered reports whether a handler is bound to the command type.
func (b *MessageBus) IsRegistered(commandType contracts.Command) bool {
	return b.commandBus.IsRegistered(commandType)
}

// HandlerCount returns the number of handlers registered for the event type.
func (b *MessageBus) HandlerCount(eventType contracts.Event) int {
	return b.eventBus.HandlerCount(eventType)
}

func (b *MessageBus) loadCommandHandler(commandType contracts.Command, handler any) (messaging.CommandHandler, error) {
	loaded, err := b.provider.Load(handler)
	if err != nil {
		return nil, err
	}

	typed, ok := loaded.(messaging.CommandHandler)
	if !ok {
		return nil, &messaging.InvalidHandlerError{
			MessageType: contracts.MessageName(commandType),
			Reason:      "loaded value does not implement messaging.CommandHandler",
		}
	}
	return typed, nil
}

func (b *MessageBus) loadEventHandlers(eventType contracts.Event, handlers []any) ([]messaging.EventHandler, error) {
	loaded := make([]messaging.EventHandler, 0, len(handlers))
	for _, handler := range handlers {
		resolved, err := b.provider.Load(handler)
		if err != nil {
			return nil, err
		}

		typed, ok := resolved.(messaging.EventHandler)
		if !ok {
			return nil, &messaging.InvalidHandlerError{
				MessageType: contracts.MessageName(eventType),
				Reason:      "loaded value does not implement messaging.EventHandler",
			}
		}
		loaded = append(loaded, typed)
	}
	return loaded, nil
}
