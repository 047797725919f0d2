package blocking

import (
	"testing"
	"time"

	"github.com/rsms/go-testutil"
	"github.com/rsms/redistore/internal/reply"
	"github.com/rsms/redistore/internal/store"
)

func TestRunSucceedsImmediatelyWhenDataPresent(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		tx.SetList("k", [][]byte{[]byte("v")})
		return reply.OK(), true
	})

	done := make(chan struct{})
	r, canceled := Run(s, done, time.Second, reply.NullArr(), func(tx *store.Tx) (reply.Reply, bool) {
		list := tx.GetList("k")
		if len(list) == 0 {
			return reply.Reply{}, false
		}
		return reply.Bulk(list[0]), true
	})
	assert.Ok("not canceled", !canceled)
	assert.Eq("value", string(r.Bulk), "v")
}

func TestRunTimesOut(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	done := make(chan struct{})
	start := time.Now()
	r, canceled := Run(s, done, 50*time.Millisecond, reply.NullArr(), func(tx *store.Tx) (reply.Reply, bool) {
		return reply.Reply{}, false
	})
	assert.Ok("not canceled", !canceled)
	assert.Eq("timeout reply kind", r.Kind, reply.NullArray)
	assert.Ok("waited roughly the timeout", time.Since(start) >= 40*time.Millisecond)
}

func TestRunWakesOnLateArrival(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	done := make(chan struct{})

	resultCh := make(chan reply.Reply, 1)
	go func() {
		r, _ := Run(s, done, 2*time.Second, reply.NullArr(), func(tx *store.Tx) (reply.Reply, bool) {
			list := tx.GetList("k")
			if len(list) == 0 {
				return reply.Reply{}, false
			}
			return reply.Bulk(list[0]), true
		})
		resultCh <- r
	}()

	time.Sleep(20 * time.Millisecond)
	s.Atomic(func(tx *store.Tx) (reply.Reply, bool) {
		tx.SetList("k", [][]byte{[]byte("late")})
		return reply.OK(), true
	})

	select {
	case r := <-resultCh:
		assert.Eq("value", string(r.Bulk), "late")
	case <-time.After(time.Second):
		t.Fatal("Run did not wake on commit")
	}
}

func TestRunCancellation(t *testing.T) {
	assert := testutil.NewAssert(t)
	s := store.New()
	done := make(chan struct{})

	resultCh := make(chan bool, 1)
	go func() {
		_, canceled := Run(s, done, 0, reply.NullArr(), func(tx *store.Tx) (reply.Reply, bool) {
			return reply.Reply{}, false
		})
		resultCh <- canceled
	}()

	time.Sleep(20 * time.Millisecond)
	close(done)

	select {
	case canceled := <-resultCh:
		assert.Ok("canceled", canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not observe cancellation")
	}
}
