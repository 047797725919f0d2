// Package blocking implements the blocking runner: it wraps a handler
// body whose semantics are "retry until data appears or a deadline
// fires" — BLPOP, BRPOP, BRPOPLPUSH, BLMOVE, BZPOPMAX, BZPOPMIN.
//
// The retry-on-empty primitive is realized here as a plain loop:
// attempt the transaction, and if it reports "no progress yet", wait for
// the store's next commit (or the deadline, or caller cancellation) and
// try again. This is a condition-variable-per-key-set strategy:
// store.Store's channel-broadcast Changed/WaitOn plays the role of that
// condition variable. The channel is captured before each attempt so a
// commit landing between the failed attempt and the wait is never missed.
package blocking

import (
	"time"

	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/store"
)

// Body is one retry iteration of a blocking command. ok=true means data
// was found and r should be committed and returned; ok=false means
// "nothing to do yet", and the transaction is rolled back so the runner
// can wait and retry.
type Body func(tx *store.Tx) (r reply.Reply, ok bool)

// Run executes body repeatedly until it succeeds, the timeout elapses, or
// done is closed by the caller. timeout<=0 means wait indefinitely.
// timeoutReply is returned verbatim when the deadline fires first
// (NullArray for BLPOP/BRPOP; NullBulk for BRPOPLPUSH/BLMOVE, and for
// BZPOPMAX/BZPOPMIN instead of the null array real Redis replies with).
//
// canceled reports whether done fired before either a result or a
// timeout; in that case no reply should be surfaced to the caller.
func Run(s *store.Store, done <-chan struct{}, timeout time.Duration, timeoutReply reply.Reply, body Body) (r reply.Reply, canceled bool) {
	return RunWithClock(s, done, timeout, timeoutReply, body, time.Now)
}

// RunWithClock is Run with an injectable notion of "now", the same seam
// WithClock exposes on the public Executor so blocking-timeout tests don't
// need a real wall-clock sleep.
func RunWithClock(s *store.Store, done <-chan struct{}, timeout time.Duration, timeoutReply reply.Reply, body Body, now func() time.Time) (r reply.Reply, canceled bool) {
	var deadline time.Time
	hasDeadline := timeout > 0
	if hasDeadline {
		deadline = now().Add(timeout)
	}

	for {
		select {
		case <-done:
			return reply.Reply{}, true
		default:
		}

		// Grab the change channel before the attempt, not after: a commit
		// landing between the failed Atomic call and WaitOn below still
		// closes this exact channel, so the wait can't miss it.
		changed := s.Changed()

		result, ok := s.Atomic(func(tx *store.Tx) (reply.Reply, bool) { return body(tx) })
		if ok {
			return result, false
		}

		remaining := time.Duration(0)
		if hasDeadline {
			remaining = deadline.Sub(now())
			if remaining <= 0 {
				return timeoutReply, false
			}
		}

		_, wasCanceled := s.WaitOn(changed, done, remaining)
		if wasCanceled {
			return reply.Reply{}, true
		}
		if hasDeadline && now().After(deadline) {
			return timeoutReply, false
		}
		// otherwise: either data changed, or we hit a spurious wake after a
		// non-deadline wait; loop around and retry the body.
	}
}
