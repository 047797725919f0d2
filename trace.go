package redistore

import (
	"time"

	"github.com/rsms/go-json"

	"github.com/rsms/redistore/internal/reply"
)

// traceEncoder builds the structured record logged for every executed
// command as a bare json.Builder stream: one StartObject/Key/value call
// per field, no intermediate struct.
type traceEncoder struct {
	json.Builder
}

func (c *traceEncoder) Err() error { return c.Builder.Err }

// trace logs one command execution if a Logger is attached. It never
// surfaces a failure to the caller: tracing is strictly best-effort.
// Dispatch-level failures (unknown command, protocol error, WRONGTYPE
// and friends) are logged at Warn; everything else at Info.
func (e *Executor) trace(op string, args [][]byte, r reply.Reply, start time.Time, dispatchErr error) {
	if e.Logger == nil {
		return
	}
	c := traceEncoder{}
	c.StartObject()
	c.Key("op")
	c.Str(op)
	c.Key("args")
	c.Int(int64(len(args)), 64)
	c.Key("reply")
	c.Str(replyKindName(r))
	c.Key("elapsed")
	c.Str(time.Since(start).String())
	c.EndObject()
	if c.Err() != nil {
		return
	}
	b := c.Bytes()
	if dispatchErr != nil || r.IsError() {
		e.Logger.Warn("%s", string(b))
		return
	}
	e.Logger.Info("%s", string(b))
}

func replyKindName(r reply.Reply) string {
	switch r.Kind {
	case reply.SimpleString:
		return "simple"
	case reply.Error:
		return "error"
	case reply.Integer:
		return "integer"
	case reply.BulkString:
		return "bulk"
	case reply.NullBulk:
		return "null-bulk"
	case reply.Array:
		return "array"
	case reply.NullArray:
		return "null-array"
	default:
		return "unknown"
	}
}
