package wire_test

import (
	"net"
	"testing"
	"time"

	"github.com/mediocregopher/radix/v3"
	"github.com/rsms/go-testutil"

	"github.com/rsms/redistore"
	"github.com/rsms/redistore/internal/wire"
)

// startServer spins up an internal/wire.Server on an ephemeral local
// port and dials it with a real radix.Pool, the client a real Redis
// deployment would use. This is the one test in the module that
// exercises the RESP wire format end to end rather than calling
// internal/command handlers directly.
func startServer(t *testing.T) (*radix.Pool, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	srv := &wire.Server{Exec: redistore.NewExecutor(redistore.WithSeed(1))}
	go srv.ListenAndServe(addr)

	var pool *radix.Pool
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		pool, err = radix.NewPool("tcp", addr, 1)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	return pool, func() { pool.Close(); srv.Close() }
}

// TestEndToEndScenarios replays concrete end-to-end scenarios through
// the real RESP codec, confirming internal/wire's framing round trips
// the same semantics internal/command's unit tests already check
// directly.
func TestEndToEndScenarios(t *testing.T) {
	assert := testutil.NewAssert(t)
	pool, closeFn := startServer(t)
	defer closeFn()

	var n int
	if err := pool.Do(radix.FlatCmd(&n, "SADD", "s", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("sadd", n, 3)

	if err := pool.Do(radix.Cmd(&n, "SCARD", "s")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("scard", n, 3)

	if err := pool.Do(radix.FlatCmd(&n, "SREM", "s", "a", "z")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("srem", n, 1)

	var members []string
	if err := pool.Do(radix.Cmd(&members, "SMEMBERS", "s")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("smembers count", len(members), 2)

	var h int
	if err := pool.Do(radix.FlatCmd(&h, "HSET", "hh", "f1", "v1", "f2", "v2")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("hset", h, 2)

	var incr int64
	if err := pool.Do(radix.FlatCmd(&incr, "HINCRBY", "hh", "n", 5)); err != nil {
		t.Fatal(err)
	}
	assert.Eq("hincrby", incr, int64(5))

	var pong string
	if err := pool.Do(radix.Cmd(&pong, "PING")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("ping", pong, "PONG")

	var typ string
	if err := pool.Do(radix.Cmd(&typ, "TYPE", "s")); err != nil {
		t.Fatal(err)
	}
	assert.Eq("type", typ, "set")

	if err := pool.Do(radix.FlatCmd(nil, "SET", "x", "hi")); err != nil {
		t.Fatal(err)
	}
	if err := pool.Do(radix.FlatCmd(&n, "SADD", "x", "y")); err == nil {
		t.Fatal("expected WRONGTYPE error")
	}
}

// TestBlockingOverWire confirms BLPOP retries across the RESP boundary:
// one client blocks on an empty list with BLPOP k 1 while another
// pushes to it with RPUSH k v, and the first must receive [k, v].
func TestBlockingOverWire(t *testing.T) {
	assert := testutil.NewAssert(t)
	pool, closeFn := startServer(t)
	defer closeFn()

	done := make(chan []string, 1)
	go func() {
		var result []string
		pool.Do(radix.Cmd(&result, "BLPOP", "k", "1"))
		done <- result
	}()

	time.Sleep(50 * time.Millisecond)
	var n int
	if err := pool.Do(radix.FlatCmd(&n, "RPUSH", "k", "v")); err != nil {
		t.Fatal(err)
	}

	select {
	case result := <-done:
		assert.Eq("blpop reply length", len(result), 2)
		if len(result) == 2 {
			assert.Eq("blpop key", result[0], "k")
			assert.Eq("blpop value", result[1], "v")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BLPOP did not return")
	}
}
