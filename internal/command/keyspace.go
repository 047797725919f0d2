package command

import (
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

// Generic keyspace commands: EXISTS, DEL, TYPE and KEYS. None of these
// are type-specific, so they live apart from
// strings/lists/sets/hashes/zsets/hll and lean entirely on Tx.KindOf /
// Tx.Del / Tx.Keys, iterating across the whole keyspace rather than any
// one value type.

func init() {
	register("EXISTS", cmdExists)
	register("DEL", cmdDel)
	register("TYPE", cmdType)
	register("KEYS", cmdKeys)
}

func cmdExists(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("exists")
	}
	var n int64
	for _, k := range args[1:] {
		if tx.KindOf(string(k)) != store.None {
			n++
		}
	}
	return reply.Int(n)
}

func cmdDel(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("del")
	}
	var n int64
	for _, k := range args[1:] {
		if tx.Del(string(k)) {
			n++
		}
	}
	return reply.Int(n)
}

func cmdType(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("type")
	}
	return reply.Simple(tx.KindOf(string(args[1])).String())
}

func cmdKeys(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("keys")
	}
	re, err := globToRegexp(string(args[1]))
	if err != nil {
		return reply.Err("ERR invalid pattern")
	}
	items := make([]reply.Reply, 0)
	for _, k := range tx.Keys() {
		if re.MatchString(k) {
			items = append(items, reply.BulkFromString(k))
		}
	}
	return reply.Arr(items)
}
