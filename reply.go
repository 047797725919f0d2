package redistore

import "github.com/rsms/redistore/internal/reply"

// Reply is the tagged-union result of Exec: one of simple string, error,
// integer, bulk string, null bulk, array, or null array, mirroring the
// shapes every handler in internal/command produces. It is a type alias
// rather than a wrapper so callers in internal/command and the public API
// share one representation with no conversion at the boundary.
type Reply = reply.Reply

const (
	SimpleString = reply.SimpleString
	ErrorReply   = reply.Error
	Integer      = reply.Integer
	BulkString   = reply.BulkString
	NullBulk     = reply.NullBulk
	Array        = reply.Array
	NullArray    = reply.NullArray
)
