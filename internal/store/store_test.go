package store

import (
	"testing"
	"time"

	"github.com/rsms/go-testutil"
	"github.com/rsms/redistore/internal/reply"
)

func TestAtomicCommitAndRollback(t *testing.T) {
	assert := testutil.NewAssert(t)

	s := New()

	// committed write is visible afterwards
	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetString("greeting", []byte("hello"))
		return reply.OK(), true
	})
	r, _ := s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		v, ok := tx.GetString("greeting")
		assert.Ok("present", ok)
		return reply.Bulk(v), true
	})
	assert.Eq("value", string(r.Bulk), "hello")

	// a rolled-back transaction leaves no trace
	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetString("greeting", []byte("goodbye"))
		return reply.Err("nope"), false
	})
	r2, _ := s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		v, _ := tx.GetString("greeting")
		return reply.Bulk(v), true
	})
	assert.Eq("unchanged", string(r2.Bulk), "hello")
}

func TestTypeExclusivity(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := New()

	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetString("k", []byte("v"))
		return reply.OK(), true
	})

	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		assert.Ok("string owns k", tx.IsString("k"))
		assert.Ok("not a set", !tx.IsSet("k"))
		assert.Ok("not a list", !tx.IsList("k"))
		return reply.OK(), false
	})
}

func TestHashDeletesOnEmpty(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := New()

	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetHash("h", map[string][]byte{"f": []byte("v")})
		return reply.OK(), true
	})
	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetHash("h", map[string][]byte{}) // emptied
		return reply.OK(), true
	})
	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		assert.Eq("kind", tx.KindOf("h"), None)
		return reply.OK(), false
	})
}

func TestSetRetainsEmptyContainer(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := New()

	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetSet("s", map[string]struct{}{})
		return reply.OK(), true
	})
	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		// an emptied set is still "owned" by the set namespace,
		// unlike an emptied hash.
		assert.Eq("kind", tx.KindOf("s"), KindSet)
		return reply.OK(), false
	})
}

func TestWaitWakesOnCommit(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := New()
	done := make(chan bool, 1)
	go func() {
		done <- s.Wait(2 * time.Second)
	}()
	time.Sleep(20 * time.Millisecond)
	s.Atomic(func(tx *Tx) (reply.Reply, bool) {
		tx.SetString("x", []byte("1"))
		return reply.OK(), true
	})
	assert.Ok("woke from commit, not timeout", <-done)
}

func TestWaitTimesOut(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := New()
	assert.Ok("timed out", !s.Wait(10*time.Millisecond))
}
