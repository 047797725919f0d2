package command

import (
	"testing"

	"github.com/rsms/go-testutil"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func TestHsetHgetHdel(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdHset(tx, rs, bargs("HSET", "h", "f1", "v1", "f2", "v2"))
		assert.Eq("added", r.Int, int64(2))
		return r, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdHget(tx, rs, bargs("HGET", "h", "f1"))
		assert.Eq("value", string(r.Bulk), "v1")
		r2 := cmdHdel(tx, rs, bargs("HDEL", "h", "f1", "f2"))
		assert.Eq("removed", r2.Int, int64(2))
		return r2, true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		assert.Eq("hash gone", tx.KindOf("h"), store.None)
		return reply.OK(), false
	})
}

func TestHincrby(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdHset(tx, rs, bargs("HSET", "h", "n", "10"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdHincrby(tx, rs, bargs("HINCRBY", "h", "n", "5"))
		assert.Eq("incremented", r.Int, int64(15))
		r2 := cmdHincrby(tx, rs, bargs("HINCRBY", "h", "missing", "-3"))
		assert.Eq("new field", r2.Int, int64(-3))
		return reply.OK(), false
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdHset(tx, rs, bargs("HSET", "h", "notint", "abc"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdHincrby(tx, rs, bargs("HINCRBY", "h", "notint", "1"))
		assert.Ok("type error", r.IsError())
		return reply.OK(), false
	})
}

func TestHgetallAndScan(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdHset(tx, rs, bargs("HSET", "h", "a", "1", "b", "2", "c", "3"))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdHgetall(tx, rs, bargs("HGETALL", "h"))
		assert.Eq("pairs", len(r.Items), 6)

		scan := cmdHscan(tx, rs, bargs("HSCAN", "h", "0", "COUNT", "2"))
		page := scan.Items[1]
		assert.Eq("window size", len(page.Items), 4) // 2 fields * 2
		return reply.OK(), false
	})
}
