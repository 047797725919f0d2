package command

import (
	"testing"
	"time"

	"github.com/rsms/go-testutil"
	"github.com/rsms/redistore/internal/blocking"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func TestLpushRpushOrder(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLpush(tx, rs, bargs("LPUSH", "k", "a", "b", "c"))
		assert.Eq("len", r.Int, int64(3))
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLrange(tx, rs, bargs("LRANGE", "k", "0", "-1"))
		got := []string{string(r.Items[0].Bulk), string(r.Items[1].Bulk), string(r.Items[2].Bulk)}
		assert.Eq("order", got[0], "c")
		assert.Eq("order", got[1], "b")
		assert.Eq("order", got[2], "a")
		return reply.OK(), false
	})
}

func TestLpushxNoop(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLpushx(tx, rs, bargs("LPUSHX", "missing", "x"))
		assert.Eq("noop", r.Int, int64(0))
		return reply.OK(), false
	})
}

func TestLposRankCount(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdRpush(tx, rs, bargs("RPUSH", "k", "a", "b", "c", "b", "a"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLpos(tx, rs, bargs("LPOS", "k", "b"))
		assert.Eq("first b", r.Int, int64(1))

		r2 := cmdLpos(tx, rs, bargs("LPOS", "k", "a", "RANK", "-1"))
		assert.Eq("last a", r2.Int, int64(4))

		r3 := cmdLpos(tx, rs, bargs("LPOS", "k", "a", "COUNT", "0"))
		assert.Eq("all a positions", len(r3.Items), 2)
		return reply.OK(), false
	})
}

func TestLremVariants(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdRpush(tx, rs, bargs("RPUSH", "k", "a", "b", "a", "c", "a"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLrem(tx, rs, bargs("LREM", "k", "2", "a"))
		assert.Eq("removed from head", r.Int, int64(2))
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLrange(tx, rs, bargs("LRANGE", "k", "0", "-1"))
		assert.Eq("remaining", len(r.Items), 3)
		return reply.OK(), false
	})
}

func TestLsetOutOfRange(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdRpush(tx, rs, bargs("RPUSH", "k", "a", "b"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLset(tx, rs, bargs("LSET", "k", "99", "x"))
		assert.Ok("errored", r.IsError())
		assert.Eq("message", r.Str, "ERR index out of range")
		return reply.OK(), false
	})
}

func TestLmoveSameKeyRotates(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdRpush(tx, rs, bargs("RPUSH", "k", "a", "b", "c"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLmove(tx, rs, bargs("LMOVE", "k", "k", "LEFT", "RIGHT"))
		assert.Eq("moved", string(r.Bulk), "a")
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdLrange(tx, rs, bargs("LRANGE", "k", "0", "-1"))
		got := []string{string(r.Items[0].Bulk), string(r.Items[1].Bulk), string(r.Items[2].Bulk)}
		assert.Eq("rotated", got[0], "b")
		assert.Eq("rotated", got[2], "a")
		return reply.OK(), false
	})
}

func TestBlpopImmediateAndTimeout(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdRpush(tx, rs, bargs("RPUSH", "k", "v"))
		return reply.OK(), true
	})
	h, ok := LookupBlocking("BLPOP")
	assert.Ok("registered", ok)
	body, timeout, nullReply, parseErr := h(rs, bargs("BLPOP", "k", "1"))
	assert.Ok("no parse error", parseErr == nil)
	done := make(chan struct{})
	r, canceled := blocking.Run(s, done, timeout, nullReply, body)
	assert.Ok("not canceled", !canceled)
	assert.Eq("key", string(r.Items[0].Bulk), "k")
	assert.Eq("value", string(r.Items[1].Bulk), "v")

	body2, timeout2, nullReply2, _ := h(rs, bargs("BLPOP", "missing", "1"))
	start := time.Now()
	r2, canceled2 := blocking.Run(s, done, timeout2, nullReply2, body2)
	assert.Ok("not canceled", !canceled2)
	assert.Eq("timed out null array", r2.Kind, reply.NullArray)
	assert.Ok("waited roughly the timeout", time.Since(start) >= 900*time.Millisecond)
}
