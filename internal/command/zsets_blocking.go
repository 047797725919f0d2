package command

import (
	"time"

	"github.com/rsms/redistore/internal/blocking"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func init() {
	registerBlocking("BZPOPMAX", blockingBzpop(true))
	registerBlocking("BZPOPMIN", blockingBzpop(false))
}

// blockingBzpop builds BZPOPMAX/BZPOPMIN's handler: fairness picks the
// first listed key (left to right) with a non-empty sorted set, popping
// its max or min entry. The timeout reply is NullBulk, unlike the
// NullArray BLPOP/BRPOP use for the same situation — an explicit
// divergence from real Redis's own BZPOPMIN/MAX (which replies with a
// null array).
func blockingBzpop(popMax bool) BlockingHandler {
	name := "bzpopmin"
	if popMax {
		name = "bzpopmax"
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
				if !tx.IsZSet(key) {
					continue
				}
				z := tx.GetZSet(key)
				if len(z) == 0 {
					continue
				}
				entries := sortedZSet(z)
				pick := entries[0]
				if popMax {
					pick = entries[len(entries)-1]
				}
				clone := cloneZSet(z)
				delete(clone, pick.member)
				tx.SetZSet(key, clone)
				return reply.Arr([]reply.Reply{
					reply.BulkFromString(key),
					reply.BulkFromString(pick.member),
					reply.BulkFromString(formatScore(pick.score)),
				}), true
			}
			return reply.Reply{}, false
		}
		return body, timeout, reply.Null(), nil
	}
}
