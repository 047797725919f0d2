package redistore_test

import (
	"testing"
	"time"

	"github.com/rsms/go-testutil"

	"github.com/rsms/redistore"
)

func args(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestExecBasicCommands(t *testing.T) {
	assert := testutil.NewAssert(t)
	e := redistore.NewExecutor(redistore.WithSeed(1))

	r, ok := e.Exec(args("SET", "k", "v"), nil)
	assert.Eq("ok", ok, true)
	assert.Eq("set reply", r.Str, "OK")

	r, _ = e.Exec(args("GET", "k"), nil)
	assert.Eq("get reply", string(r.Bulk), "v")

	r, _ = e.Exec(args("SADD", "k", "x"), nil)
	assert.Eq("wrongtype", r.Kind, redistore.ErrorReply)
}

func TestExecProtocolError(t *testing.T) {
	assert := testutil.NewAssert(t)
	e := redistore.NewExecutor()
	r, ok := e.Exec(nil, nil)
	assert.Eq("ok", ok, true)
	assert.Eq("kind", r.Kind, redistore.ErrorReply)
}

func TestExecUnknownCommand(t *testing.T) {
	assert := testutil.NewAssert(t)
	e := redistore.NewExecutor()
	r, _ := e.Exec(args("NOTACOMMAND"), nil)
	assert.Eq("kind", r.Kind, redistore.ErrorReply)
}

func TestExecBlockingTimeout(t *testing.T) {
	assert := testutil.NewAssert(t)
	e := redistore.NewExecutor()

	start := time.Now()
	r, ok := e.Exec(args("BLPOP", "missing", "1"), nil)
	assert.Eq("ok", ok, true)
	assert.Eq("kind", r.Kind, redistore.NullArray)
	assert.Ok("waited roughly the timeout", time.Since(start) >= 900*time.Millisecond)
}

func TestExecBlockingWakesOnPush(t *testing.T) {
	assert := testutil.NewAssert(t)
	e := redistore.NewExecutor()

	done := make(chan []byte)
	go func() {
		r, _ := e.Exec(args("BLPOP", "k", "0"), nil)
		done <- r.Items[1].Bulk
	}()

	time.Sleep(20 * time.Millisecond)
	e.Exec(args("RPUSH", "k", "v"), nil)

	select {
	case v := <-done:
		assert.Eq("value", string(v), "v")
	case <-time.After(2 * time.Second):
		t.Fatal("BLPOP did not wake up")
	}
}
