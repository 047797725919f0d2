package command

import (
	"time"

	"github.com/rsms/redistore/internal/blocking"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	registerBlocking("BLPOP", blockingBpop(true))
	registerBlocking("BRPOP", blockingBpop(false))
	registerBlocking("BRPOPLPUSH", blockingBrpoplpush)
	registerBlocking("BLMOVE", blockingBlmove)
}

// parseTimeoutSeconds parses the trailing whole-seconds timeout argument
// every blocking opcode names. 0 means wait indefinitely.
func parseTimeoutSeconds(b []byte) (time.Duration, bool) {
	n, ok := parseInt(b)
	if !ok || n < 0 {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

// blockingBpop builds BLPOP/BRPOP's handler: fairness picks the first
// listed key (left to right) with a non-empty list, and pops from
// whichever end fromHead selects.
func blockingBpop(fromHead bool) BlockingHandler {
	name := "brpop"
	if fromHead {
		name = "blpop"
	}
	return func(rs *rnd.Source, args [][]byte) (blocking.Body, time.Duration, reply.Reply, *reply.Reply) {
		if len(args) < 3 {
			err := arityErr(name)
			return nil, 0, reply.Reply{}, &err
		}
		keys := args[1 : len(args)-1]
		timeout, ok := parseTimeoutSeconds(args[len(args)-1])
		if !ok {
			err := reply.Errf("timeout is not an integer or out of range")
			return nil, 0, reply.Reply{}, &err
		}
		body := func(tx *store.Tx) (reply.Reply, bool) {
			for _, k := range keys {
				key := string(k)
				if !tx.IsList(key) {
					continue
				}
				list := tx.GetList(key)
				if len(list) == 0 {
					continue
				}
				clone := cloneList(list)
				var v []byte
				if fromHead {
					v, clone = clone[0], clone[1:]
				} else {
					last := len(clone) - 1
					v, clone = clone[last], clone[:last]
				}
				tx.SetList(key, clone)
				return reply.Arr([]reply.Reply{reply.BulkFromString(key), reply.Bulk(v)}), true
			}
			return reply.Reply{}, false
		}
		return body, timeout, reply.NullArr(), nil
	}
}

func blockingBrpoplpush(rs *rnd.Source, args [][]byte) (blocking.Body, time.Duration, reply.Reply, *reply.Reply) {
	if len(args) != 4 {
		err := arityErr("brpoplpush")
		return nil, 0, reply.Reply{}, &err
	}
	src, dst := string(args[1]), string(args[2])
	timeout, ok := parseTimeoutSeconds(args[3])
	if !ok {
		err := reply.Errf("timeout is not an integer or out of range")
		return nil, 0, reply.Reply{}, &err
	}
	body := func(tx *store.Tx) (reply.Reply, bool) {
		if !tx.IsList(src) || !tx.IsList(dst) {
			return reply.WrongType(), true
		}
		v, moved := moveOne(tx, src, dst, false, true)
		if !moved {
			return reply.Reply{}, false
		}
		return reply.Bulk(v), true
	}
	return body, timeout, reply.Null(), nil
}

func blockingBlmove(rs *rnd.Source, args [][]byte) (blocking.Body, time.Duration, reply.Reply, *reply.Reply) {
	if len(args) != 6 {
		err := arityErr("blmove")
		return nil, 0, reply.Reply{}, &err
	}
	src, dst := string(args[1]), string(args[2])
	popLeft, ok1 := sideFlag(args[3])
	pushLeft, ok2 := sideFlag(args[4])
	if !ok1 || !ok2 {
		err := reply.Err("ERR syntax error")
		return nil, 0, reply.Reply{}, &err
	}
	timeout, ok := parseTimeoutSeconds(args[5])
	if !ok {
		err := reply.Errf("timeout is not an integer or out of range")
		return nil, 0, reply.Reply{}, &err
	}
	body := func(tx *store.Tx) (reply.Reply, bool) {
		if !tx.IsList(src) || !tx.IsList(dst) {
			return reply.WrongType(), true
		}
		v, moved := moveOne(tx, src, dst, popLeft, pushLeft)
		if !moved {
			return reply.Reply{}, false
		}
		return reply.Bulk(v), true
	}
	return body, timeout, reply.Null(), nil
}
