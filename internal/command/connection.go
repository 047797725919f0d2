package command

import (
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	register("PING", cmdPing)
	register("AUTH", cmdAuth)
	register("SELECT", cmdSelect)
	register("ECHO", cmdEcho)
}

var pong = reply.Simple("PONG")

// cmdPing implements PING: no-arg -> PONG, one arg -> echo that arg.
func cmdPing(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	switch len(args) {
	case 1:
		return pong
	case 2:
		return reply.Bulk(args[1])
	default:
		return arityErr("ping")
	}
}

// cmdAuth implements AUTH: always OK given at least one argument. There is
// no credential store to check against; authentication is out of scope.
func cmdAuth(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("auth")
	}
	return reply.OK()
}

// cmdSelect implements SELECT: always OK given at least one argument.
// There is only ever one logical keyspace; SELECT exists so client
// libraries that always issue it don't break.
func cmdSelect(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("select")
	}
	return reply.OK()
}

func cmdEcho(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) != 2 {
		return arityErr("echo")
	}
	return reply.Bulk(args[1])
}
