package command

import (
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

// HyperLogLog is modeled as a plain set of the values added, with no
// probabilistic sketch — PFCOUNT reports the true cardinality of the
// underlying set rather than an estimate.

func init() {
	register("PFADD", cmdPfadd)
	register("PFCOUNT", cmdPfcount)
	register("PFMERGE", cmdPfmerge)
}

func cloneHLL(h map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(h))
	for m := range h {
		out[m] = struct{}{}
	}
	return out
}

// cmdPfadd implements PFADD key v ...: returns 1 if the underlying set
// changed, 0 otherwise.
func cmdPfadd(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("pfadd")
	}
	key := string(args[1])
	if !tx.IsHLL(key) {
		return reply.WrongType()
	}
	h := cloneHLL(tx.GetHLL(key))
	changed := false
	for _, v := range args[2:] {
		member := string(v)
		if _, exists := h[member]; !exists {
			h[member] = struct{}{}
			changed = true
		}
	}
	tx.SetHLL(key, h)
	if changed {
		return reply.Int(1)
	}
	return reply.Int(0)
}

// cmdPfcount implements PFCOUNT key ...: the cardinality of the union of
// every named key's underlying set.
func cmdPfcount(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("pfcount")
	}
	union := map[string]struct{}{}
	for _, k := range args[1:] {
		key := string(k)
		if !tx.IsHLL(key) {
			return reply.WrongType()
		}
		for m := range tx.GetHLL(key) {
			union[m] = struct{}{}
		}
	}
	return reply.Int(int64(len(union)))
}

// cmdPfmerge implements PFMERGE dst src ...: unions every source's
// underlying set into dst.
func cmdPfmerge(tx *store.Tx, rs *rnd.Source, args [][]byte) reply.Reply {
	if len(args) < 2 {
		return arityErr("pfmerge")
	}
	dst := string(args[1])
	if !tx.IsHLL(dst) {
		return reply.WrongType()
	}
	merged := cloneHLL(tx.GetHLL(dst))
	for _, k := range args[2:] {
		key := string(k)
		if !tx.IsHLL(key) {
			return reply.WrongType()
		}
		for m := range tx.GetHLL(key) {
			merged[m] = struct{}{}
		}
	}
	tx.SetHLL(dst, merged)
	return reply.OK()
}
