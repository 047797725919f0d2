// Package command implements the handlers: one function per opcode,
// grouped by the namespace they operate on. Arity/shape parsing, the
// type-exclusivity guard, and reply construction all happen inline in
// each handler rather than spread across layers.
package command

import (
	"strings"
	"time"

	"github.com/rsms/redistore/internal/blocking"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

// Handler is one non-blocking opcode: a single atomic transaction that
// always commits. args is the full command vector, including the opcode
// at index 0, so handlers can build arity-error messages with their own
// name.
type Handler func(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply

// BlockingHandler prepares one of the six blocking opcodes: given the
// full argument vector, it returns the retry body plus the
// timeout and null reply the blocking runner (internal/blocking) should
// use. If the arguments themselves are malformed, parseErr is non-nil and
// should be returned immediately without ever entering the retry loop.
type BlockingHandler func(rs *rnd.Source, args [][]byte) (body blocking.Body, timeout time.Duration, nullReply reply.Reply, parseErr *reply.Reply)

var handlers = map[string]Handler{}
var blockingHandlers = map[string]BlockingHandler{}

func register(name string, h Handler) { handlers[strings.ToUpper(name)] = h }

func registerBlocking(name string, h BlockingHandler) { blockingHandlers[strings.ToUpper(name)] = h }

// Lookup returns the non-blocking handler for name (already upper-cased by
// the caller), if any.
func Lookup(name string) (Handler, bool) {
	h, ok := handlers[name]
	return h, ok
}

// LookupBlocking returns the blocking handler for name, if any.
func LookupBlocking(name string) (BlockingHandler, bool) {
	h, ok := blockingHandlers[name]
	return h, ok
}

// IsBlocking reports whether name names one of the six blocking opcodes.
func IsBlocking(name string) bool {
	_, ok := blockingHandlers[name]
	return ok
}
