package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glimte/bossbus-go/contracts"
)

// messageVerbs holds the wording used in log output for one message kind.
type messageVerbs struct {
	past   string
	gerund string
}

var verbsByKind = map[contracts.Kind]messageVerbs{
	contracts.KindCommand: {past: "executed", gerund: "executing"},
	contracts.KindEvent:   {past: "dispatched", gerund: "dispatching"},
	contracts.KindMessage: {past: "handled", gerund: "handling"},
}

// MessageLogger logs before, after, and on failed handling of messages that
// carry the logging marker. All other messages pass through silently.
type MessageLogger struct {
	logger *slog.Logger
}

// NewMessageLogger creates a logging middleware. A nil logger selects
// slog.Default.
func NewMessageLogger(logger *slog.Logger) *MessageLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageLogger{logger: logger}
}

// Applicable reports whether the message opted into automated logging.
func (m *MessageLogger) Applicable(msg contracts.Message) bool {
	_, ok := msg.(contracts.Loggable)
	return ok
}

// Handle implements Middleware. Errors from the rest of the chain are logged
// and returned unchanged, never suppressed.
func (m *MessageLogger) Handle(ctx context.Context, msg contracts.Message, next Next) (any, error) {
	if !m.Applicable(msg) {
		return next(ctx, msg)
	}

	kind := msg.Kind()
	verbs, ok := verbsByKind[kind]
	if !ok {
		verbs = verbsByKind[contracts.KindMessage]
	}
	name := contracts.MessageName(msg)

	m.logger.InfoContext(ctx, fmt.Sprintf("%s %s <%s>", capitalize(verbs.gerund), kind, name))

	result, err := next(ctx, msg)
	if err != nil {
		m.logger.ErrorContext(ctx, fmt.Sprintf("Failed %s %s <%s>", verbs.gerund, kind, name),
			"error", err,
		)
		return result, err
	}

	m.logger.InfoContext(ctx, fmt.Sprintf("Successfully %s %s <%s>", verbs.past, kind, name))
	return result, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
