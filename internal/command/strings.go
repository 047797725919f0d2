package command

import (
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	register("SET", cmdSet)
	register("GET", cmdGet)
}

// cmdSet implements "SET key value [PX ms]". The TTL token is parsed (so
// that a well-formed command doesn't fail) but never enforced: accept
// and ignore, the simpler of the options that changes no other
// command's behavior.
func cmdSet(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 3 {
		return arityErr("set")
	}
	key, value := string(args[1]), args[2]
	rest := args[3:]
	for len(rest) > 0 {
		switch {
		case eqFold(rest[0], "PX") && len(rest) >= 2:
			if _, ok := parseInt(rest[1]); !ok {
				return reply.Err("ERR value is not an integer or out of range")
			}
			rest = rest[2:]
		default:
			return reply.Err("ERR syntax error")
		}
	}
	if !tx.IsString(key) {
		return reply.WrongType()
	}
	tx.SetString(key, append([]byte(nil), value...))
	return reply.OK()
}

func cmdGet(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("get")
	}
	key := string(args[1])
	if !tx.IsString(key) {
		return reply.WrongType()
	}
	v, ok := tx.GetString(key)
	if !ok {
		return reply.Null()
	}
	return reply.Bulk(v)
}
