package middleware

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glimte/bossbus-go/contracts"
)

// DefaultLockTimeout bounds how long a caller waits for the lock before
// proceeding without it.
const DefaultLockTimeout = 5 * time.Second

type lockOwnerKey struct{}

func withLockOwner(ctx context.Context, token uint64) context.Context {
	return context.WithValue(ctx, lockOwnerKey{}, token)
}

func lockOwner(ctx context.Context) uint64 {
	token, _ := ctx.Value(lockOwnerKey{}).(uint64)
	return token
}

// pending is a postponed call awaiting drain after unlock.
type pending struct {
	ctx  context.Context
	msg  contracts.Message
	next Next
}

// BusLocker serializes handling of lockable messages. While one is being
// handled, messages arriving from other goroutines wait for the lock, and
// messages arriving from inside the lock holder's own handling are queued and
// run after the holder finishes. Waiting is bounded: once the effective
// timeout elapses the waiter proceeds without the lock rather than hanging on
// a stale hold.
//
// Lock ownership is a per-acquisition token carried on the context passed
// down the chain, so a handler that dispatches a nested message is recognized
// as the current owner. The locker is scoped to a single process; mutual
// exclusion across processes requires an external coordinator.
type BusLocker struct {
	logger         *slog.Logger
	defaultTimeout time.Duration

	tokens atomic.Uint64

	mu       sync.Mutex
	owner    uint64        // 0 = unlocked
	timeout  time.Duration // effective wait while the current hold lasts
	released chan struct{} // closed when the current hold is released
	queue    []pending
}

// BusLockerOption configures the BusLocker
type BusLockerOption func(*BusLocker)

// WithLockTimeout sets the default time callers wait for a held lock.
func WithLockTimeout(timeout time.Duration) BusLockerOption {
	return func(l *BusLocker) {
		l.defaultTimeout = timeout
	}
}

// WithLockerLogger sets the logger
func WithLockerLogger(logger *slog.Logger) BusLockerOption {
	return func(l *BusLocker) {
		l.logger = logger
	}
}

// NewBusLocker creates a locking middleware.
func NewBusLocker(options ...BusLockerOption) *BusLocker {
	released := make(chan struct{})
	close(released)

	l := &BusLocker{
		logger:         slog.Default(),
		defaultTimeout: DefaultLockTimeout,
		released:       released,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// Applicable reports whether the message opted into serialized handling.
func (l *BusLocker) Applicable(msg contracts.Message) bool {
	_, ok := msg.(contracts.Lockable)
	return ok
}

// Locked reports whether a lockable message is currently being handled.
func (l *BusLocker) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner != 0
}

// Handle implements Middleware.
//
// Calls from the current lock owner are postponed: they are queued together
// with their continuation and return immediately with a nil result, then run
// in FIFO order once the owner releases the lock. Calls from anyone else wait
// for release or for the effective timeout, whichever comes first. Messages
// without the locking marker never acquire the lock but are subject to the
// same wait while the lock is held.
func (l *BusLocker) Handle(ctx context.Context, msg contracts.Message, next Next) (any, error) {
	caller := lockOwner(ctx)

	l.mu.Lock()
	if l.owner != 0 {
		if caller == l.owner {
			l.queue = append(l.queue, pending{ctx: ctx, msg: msg, next: next})
			l.mu.Unlock()
			return nil, nil
		}
		l.waitReleased()
	}

	lockable, ok := msg.(contracts.Lockable)
	if !ok {
		l.mu.Unlock()
		return next(ctx, msg)
	}

	token := l.tokens.Add(1)
	if l.owner != 0 {
		// Taking over a stale hold; wake anyone still waiting on it.
		close(l.released)
	}
	l.owner = token
	l.timeout = l.defaultTimeout
	if override := lockable.LockTimeout(); override > 0 {
		l.timeout = override
	}
	l.released = make(chan struct{})
	l.mu.Unlock()

	defer l.release(token)
	return next(withLockOwner(ctx, token), msg)
}

// waitReleased blocks until the lock is released or the effective timeout
// elapses. A timeout is not an error: the caller proceeds as if unlocked,
// which keeps a crashed or overlong holder from wedging the bus. Called and
// returns with l.mu held.
func (l *BusLocker) waitReleased() {
	wait := l.timeout
	deadline := time.Now().Add(wait)

	for l.owner != 0 {
		released := l.released
		remaining := time.Until(deadline)
		l.mu.Unlock()

		if remaining <= 0 {
			l.logger.Warn("lock wait timed out, proceeding without lock",
				"timeout", wait,
			)
			l.mu.Lock()
			return
		}

		timer := time.NewTimer(remaining)
		select {
		case <-released:
		case <-timer.C:
		}
		timer.Stop()
		l.mu.Lock()
	}
}

// release unlocks and drains the postponement queue in enqueue order. Queued
// calls have no return channel back to their original caller, so results are
// dropped and errors are logged.
func (l *BusLocker) release(token uint64) {
	l.mu.Lock()
	if l.owner != token {
		// A waiter timed out and took over; the new holder drains.
		l.mu.Unlock()
		return
	}
	l.owner = 0
	close(l.released)
	drained := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, p := range drained {
		if _, err := p.next(p.ctx, p.msg); err != nil {
			l.logger.Error("postponed message failed",
				"messageName", contracts.MessageName(p.msg),
				"error", err,
			)
		}
	}
}
