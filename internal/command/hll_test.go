package command

import (
	"testing"

	"github.com/rsms/go-testutil"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/rnd"
	"github.com/rsms/redistore/internal/store"
)

func TestPfaddPfcountPfmerge(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	rs := rnd.New(1)

	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		r := cmdPfadd(tx, rs, bargs("PFADD", "hll", "a"))
		assert.Eq("first add changes", r.Int, int64(1))
		r2 := cmdPfadd(tx, rs, bargs("PFADD", "hll", "a"))
		assert.Eq("repeat add is a no-op", r2.Int, int64(0))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdPfadd(tx, rs, bargs("PFADD", "hll2", "b", "c"))
		r := cmdPfcount(tx, rs, bargs("PFCOUNT", "hll", "hll2"))
		assert.Eq("union cardinality", r.Int, int64(3))
		return reply.OK(), true
	})
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		cmdPfmerge(tx, rs, bargs("PFMERGE", "dst", "hll", "hll2"))
		r := cmdPfcount(tx, rs, bargs("PFCOUNT", "dst"))
		assert.Eq("merged cardinality", r.Int, int64(3))
		return reply.OK(), false
	})
}
