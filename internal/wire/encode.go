package wire

import (
	"strconv"

	"github.com/rsms/redistore/internal/reply"
)

// bufgrow grows the capacity of *buf to at least n additional bytes, an
// eager-growth helper used before every append-heavy write.
func bufgrow(buf *[]byte, n int) {
	if cap(*buf)-len(*buf) < n {
		nb := make([]byte, len(*buf), 2*cap(*buf)+n)
		copy(nb, *buf)
		*buf = nb
	}
}

// AppendReply serializes r onto buf in RESP wire format and returns the
// grown buffer, the encode-side mirror of ReadCommand. It is the only
// place in the module that turns a reply.Reply into bytes — the executor
// itself never imports this package, since RESP framing is a concern of
// the network front-end, not the core command executor.
func AppendReply(buf []byte, r reply.Reply) []byte {
	switch r.Kind {
	case reply.SimpleString:
		return appendSimpleString(buf, r.Str)
	case reply.Error:
		return appendError(buf, r.Str)
	case reply.Integer:
		return appendInteger(buf, r.Int)
	case reply.BulkString:
		return appendBulkString(buf, r.Bulk)
	case reply.NullBulk:
		return append(buf, '$', '-', '1', '\r', '\n')
	case reply.NullArray:
		return append(buf, '*', '-', '1', '\r', '\n')
	case reply.Array:
		buf = appendArrayHeader(buf, len(r.Items))
		for _, item := range r.Items {
			buf = AppendReply(buf, item)
		}
		return buf
	default:
		return appendError(buf, "ERR internal: unknown reply kind")
	}
}

func appendSimpleString(buf []byte, s string) []byte {
	bufgrow(&buf, 1+len(s)+2)
	buf = append(buf, '+')
	buf = append(buf, s...)
	return append(buf, '\r', '\n')
}

func appendError(buf []byte, s string) []byte {
	bufgrow(&buf, 1+len(s)+2)
	buf = append(buf, '-')
	buf = append(buf, s...)
	return append(buf, '\r', '\n')
}

func appendInteger(buf []byte, n int64) []byte {
	bufgrow(&buf, 1+intBase10MaxLen+2)
	buf = append(buf, ':')
	buf = appendInt(buf, n)
	return append(buf, '\r', '\n')
}

func appendBulkString(buf []byte, data []byte) []byte {
	bufgrow(&buf, 1+intBase10MaxLen+2+len(data)+2)
	buf = append(buf, '$')
	buf = appendInt(buf, int64(len(data)))
	buf = append(buf, '\r', '\n')
	buf = append(buf, data...)
	return append(buf, '\r', '\n')
}

func appendArrayHeader(buf []byte, length int) []byte {
	bufgrow(&buf, 1+intBase10MaxLen+2)
	buf = append(buf, '*')
	buf = appendInt(buf, int64(length))
	return append(buf, '\r', '\n')
}

func appendInt(buf []byte, n int64) []byte {
	return strconv.AppendInt(buf, n, 10)
}
