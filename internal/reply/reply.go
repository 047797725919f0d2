// Package reply implements the tagged-union reply model shared by every
// command handler and by the public Executor.
package reply

import (
	"strconv"
	"strings"
)

// Kind tags which of the RESP-like shapes a Reply holds.
type Kind int

const (
	SimpleString Kind = iota
	Error
	Integer
	BulkString
	NullBulk
	Array
	NullArray
)

// Reply is a tagged union of the seven reply shapes a handler may produce.
// It deliberately has no wire encoding of its own — RESP framing is an
// external collaborator's concern (see internal/wire for one such
// collaborator), not the executor's.
type Reply struct {
	Kind  Kind
	Str   string   // SimpleString / Error text
	Int   int64    // Integer value
	Bulk  []byte   // BulkString value
	Items []Reply  // Array elements
}

func Simple(s string) Reply      { return Reply{Kind: SimpleString, Str: s} }
func Err(s string) Reply         { return Reply{Kind: Error, Str: s} }
func Int(n int64) Reply          { return Reply{Kind: Integer, Int: n} }
func Bulk(b []byte) Reply        { return Reply{Kind: BulkString, Bulk: b} }
func Null() Reply                { return Reply{Kind: NullBulk} }
func Arr(items []Reply) Reply    { return Reply{Kind: Array, Items: items} }
func NullArr() Reply             { return Reply{Kind: NullArray} }

// BulkFromString is a convenience wrapper for the common case of replying
// with a bulk string built from a Go string rather than []byte.
func BulkFromString(s string) Reply { return Bulk([]byte(s)) }

var ok = Simple("OK")

// OK is the canonical "+OK" reply returned by SET, LTRIM, et al.
func OK() Reply { return ok }

// IsError reports whether r is an Error reply.
func (r Reply) IsError() bool { return r.Kind == Error }

// String renders r for debugging: compact, human-readable, never used
// on the wire.
func (r Reply) String() string {
	switch r.Kind {
	case SimpleString:
		return "+" + r.Str
	case Error:
		return "-" + r.Str
	case Integer:
		return ":" + strconv.FormatInt(r.Int, 10)
	case BulkString:
		return "$" + string(r.Bulk)
	case NullBulk:
		return "$-1"
	case NullArray:
		return "*-1"
	case Array:
		parts := make([]string, len(r.Items))
		for i, e := range r.Items {
			parts[i] = e.String()
		}
		return "*[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}
