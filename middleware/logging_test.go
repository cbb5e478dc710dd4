package middleware

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimte/bossbus-go/contracts"
)

// captureHandler records log output for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *captureHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.records))
	for i, r := range h.records {
		out[i] = r.Message
	}
	return out
}

func newCaptureLogger() (*slog.Logger, *captureHandler) {
	handler := &captureHandler{}
	return slog.New(handler), handler
}

type greetCommand struct {
	contracts.BaseCommand
	contracts.LoggingMessage
	Greeting string
}

type greetEvent struct {
	contracts.BaseEvent
	contracts.LoggingMessage
}

type quietCommand struct {
	contracts.BaseCommand
}

type notedMessage struct {
	contracts.BaseMessage
	contracts.LoggingMessage
}

func TestMessageLoggerApplicable(t *testing.T) {
	logger := NewMessageLogger(nil)

	assert.True(t, logger.Applicable(&greetCommand{}))
	assert.False(t, logger.Applicable(&quietCommand{}))
}

func TestMessageLoggerHandle(t *testing.T) {
	t.Run("logs before and after handling a command", func(t *testing.T) {
		log, captured := newCaptureLogger()
		mw := NewMessageLogger(log)
		cmd := &greetCommand{Greeting: "hello"}

		result, err := mw.Handle(context.Background(), cmd, func(ctx context.Context, msg contracts.Message) (any, error) {
			log.Info(msg.(*greetCommand).Greeting)
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, []string{
			"Executing command <greetCommand>",
			"hello",
			"Successfully executed command <greetCommand>",
		}, captured.messages())
	})

	t.Run("uses dispatch wording for events", func(t *testing.T) {
		log, captured := newCaptureLogger()
		mw := NewMessageLogger(log)

		_, err := mw.Handle(context.Background(), &greetEvent{}, func(ctx context.Context, msg contracts.Message) (any, error) {
			return nil, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Dispatching event <greetEvent>",
			"Successfully dispatched event <greetEvent>",
		}, captured.messages())
	})

	t.Run("uses generic wording for plain messages", func(t *testing.T) {
		log, captured := newCaptureLogger()
		mw := NewMessageLogger(log)

		_, err := mw.Handle(context.Background(), &notedMessage{}, func(ctx context.Context, msg contracts.Message) (any, error) {
			return nil, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Handling message <notedMessage>",
			"Successfully handled message <notedMessage>",
		}, captured.messages())
	})

	t.Run("unmarked messages produce no log output", func(t *testing.T) {
		log, captured := newCaptureLogger()
		mw := NewMessageLogger(log)
		invoked := false

		result, err := mw.Handle(context.Background(), &quietCommand{}, func(ctx context.Context, msg contracts.Message) (any, error) {
			invoked = true
			return 7, nil
		})

		require.NoError(t, err)
		assert.True(t, invoked)
		assert.Equal(t, 7, result)
		assert.Empty(t, captured.messages())
	})

	t.Run("logs and returns handler errors unchanged", func(t *testing.T) {
		log, captured := newCaptureLogger()
		mw := NewMessageLogger(log)
		wantErr := errors.New("handler exploded")

		_, err := mw.Handle(context.Background(), &greetCommand{}, func(ctx context.Context, msg contracts.Message) (any, error) {
			return nil, wantErr
		})

		assert.Same(t, wantErr, err)
		messages := captured.messages()
		require.Len(t, messages, 2)
		assert.Equal(t, "Executing command <greetCommand>", messages[0])
		assert.Equal(t, "Failed executing command <greetCommand>", messages[1])
		assert.Equal(t, slog.LevelError, captured.records[1].Level)
	})
}
