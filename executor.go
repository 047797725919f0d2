// Package redistore implements an in-memory, transactionally-atomic
// command executor speaking a Redis-compatible command/reply dialect.
// The public surface is deliberately small — Executor and Reply —
// backed by much larger internal machinery.
package redistore

import (
	"strings"
	"time"

	"github.com/rsms/go-log"

	"github.com/rsms/redistore/internal/blocking"
	"github.com/rsms/redistore/internal/command"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

// Executor is a single Redis-compatible dataset plus the dispatcher
// that routes decoded commands to handlers over it. The zero value
// is not usable; construct with NewExecutor.
type Executor struct {
	Logger *log.Logger // nil-safe; nil disables tracing

	store *store.Store
	rnd   *rnd.Source
	clock func() time.Time
}

// Option configures an Executor at construction time, preferring
// constructor args over a config file.
type Option func(*Executor)

// WithLogger attaches a logger; nil (the default) disables tracing.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) { e.Logger = l }
}

// WithSeed fixes the random-pick source's seed, making
// SPOP/SRANDMEMBER/HRANDFIELD/ZRANDMEMBER reproducible across runs. The
// default seed is derived from the current time.
func WithSeed(seed int64) Option {
	return func(e *Executor) { e.rnd = rnd.New(seed) }
}

// WithClock overrides the notion of "now" the blocking runner uses to
// measure timeouts, the seam blocking tests use to avoid real
// wall-clock sleeps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.clock = now }
}

// NewExecutor returns a fresh, empty Executor: one store, one
// random-pick source, ready to accept commands via Exec.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		store: store.New(),
		rnd:   rnd.New(time.Now().UnixNano()),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exec routes one decoded command to its handler and returns the
// decoded reply. done, if non-nil, cancels an in-flight blocking
// command; Exec returns ok=false with a zero Reply in that case,
// surfacing caller-level cancellation rather than a reply.
//
// An empty args vector is the one condition Exec itself rejects, before
// ever reaching the dispatcher: a protocol error.
func (e *Executor) Exec(args [][]byte, done <-chan struct{}) (r Reply, ok bool) {
	start := time.Now()
	if len(args) == 0 {
		e.trace("", nil, reply.Reply{}, start, ErrProtocol)
		return reply.Err("ProtocolError: Malformed command."), true
	}
	name := strings.ToUpper(string(args[0]))

	if bh, isBlocking := command.LookupBlocking(name); isBlocking {
		body, timeout, nullReply, parseErr := bh(e.rnd, args)
		if parseErr != nil {
			e.trace(name, args, *parseErr, start, nil)
			return *parseErr, true
		}
		result, canceled := blocking.RunWithClock(e.storeHandle(), done, timeout, nullReply, body, e.clock)
		if canceled {
			return reply.Reply{}, false
		}
		e.trace(name, args, result, start, nil)
		return result, true
	}

	h, found := command.Lookup(name)
	if !found {
		e.trace(name, args, reply.UnknownCommand(), start, ErrUnknownCommand)
		return reply.UnknownCommand(), true
	}

	result, _ := e.store.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		return h(tx, e.rnd, args), true
	})
	e.trace(name, args, result, start, nil)
	return result, true
}

// storeHandle exposes the internal store to the blocking runner without
// widening Executor's own exported surface.
func (e *Executor) storeHandle() *store.Store { return e.store }
