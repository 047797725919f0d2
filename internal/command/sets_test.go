package command

import (
	"testing"

	"github.com/rsms/go-testutil"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func bargs(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestSaddSremScard(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSadd(tx, rs, bargs("SADD", "s", "a", "b", "a"))
		assert.Eq("added", r.Int, int64(2))
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdScard(tx, rs, bargs("SCARD", "s"))
		assert.Eq("card", r.Int, int64(2))
		r2 := cmdSrem(tx, rs, bargs("SREM", "s", "a", "z"))
		assert.Eq("removed", r2.Int, int64(1))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdScard(tx, rs, bargs("SCARD", "s"))
		assert.Eq("card after rem", r.Int, int64(1))
		return reply.OK(), false
	})
}

func TestSismemberSmembersWrongType(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdSadd(tx, rs, bargs("SADD", "s", "x", "y"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSismember(tx, rs, bargs("SISMEMBER", "s", "x"))
		assert.Eq("is member", r.Int, int64(1))
		r2 := cmdSismember(tx, rs, bargs("SISMEMBER", "s", "q"))
		assert.Eq("not member", r2.Int, int64(0))
		r3 := cmdSmembers(tx, rs, bargs("SMEMBERS", "s"))
		assert.Eq("count", len(r3.Items), 2)
		return reply.OK(), false
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		tx.SetString("str", []byte("v"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSismember(tx, rs, bargs("SISMEMBER", "str", "x"))
		assert.Ok("wrong type", r.IsError())
		return reply.OK(), false
	})
}

func TestSetAlgebra(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdSadd(tx, rs, bargs("SADD", "a", "1", "2", "3"))
		cmdSadd(tx, rs, bargs("SADD", "b", "2", "3", "4"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		diff := cmdSdiff(tx, rs, bargs("SDIFF", "a", "b"))
		assert.Eq("diff count", len(diff.Items), 1)
		assert.Eq("diff member", string(diff.Items[0].Bulk), "1")

		inter := cmdSinter(tx, rs, bargs("SINTER", "a", "b"))
		assert.Eq("inter count", len(inter.Items), 2)

		union := cmdSunion(tx, rs, bargs("SUNION", "a", "b"))
		assert.Eq("union count", len(union.Items), 4)
		return reply.OK(), false
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSinterstore(tx, rs, bargs("SINTERSTORE", "dst", "a", "b"))
		assert.Eq("inter card", r.Int, int64(2))
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		assert.Eq("dst kind", tx.KindOf("dst"), store.KindSet)
		return reply.OK(), false
	})
}

func TestSmove(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdSadd(tx, rs, bargs("SADD", "src", "a", "b"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSmove(tx, rs, bargs("SMOVE", "src", "dst", "a"))
		assert.Eq("moved", r.Int, int64(1))
		r2 := cmdSmove(tx, rs, bargs("SMOVE", "src", "dst", "zzz"))
		assert.Eq("absent", r2.Int, int64(0))
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSismember(tx, rs, bargs("SISMEMBER", "dst", "a"))
		assert.Eq("in dst", r.Int, int64(1))
		r2 := cmdSismember(tx, rs, bargs("SISMEMBER", "src", "a"))
		assert.Eq("gone from src", r2.Int, int64(0))
		return reply.OK(), false
	})
}

func TestSpopSrandmember(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(42)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdSadd(tx, rs, bargs("SADD", "s", "a", "b", "c"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSrandmember(tx, rs, bargs("SRANDMEMBER", "s"))
		assert.Ok("got a bulk", r.Kind == reply.BulkString)
		r2 := cmdSrandmember(tx, rs, bargs("SRANDMEMBER", "s", "-5"))
		assert.Eq("with replacement count", len(r2.Items), 5)
		return reply.OK(), false
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSpop(tx, rs, bargs("SPOP", "s", "2"))
		assert.Eq("popped", len(r.Items), 2)
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdScard(tx, rs, bargs("SCARD", "s"))
		assert.Eq("remaining", r.Int, int64(1))
		return reply.OK(), false
	})
}

func TestSscan(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdSadd(tx, rs, bargs("SADD", "s", "a", "b", "c", "d"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdSscan(tx, rs, bargs("SSCAN", "s", "0", "COUNT", "2"))
		assert.Eq("two fields", len(r.Items), 2)
		page := r.Items[1]
		assert.Eq("page size", len(page.Items), 2)
		return reply.OK(), false
	})
}
