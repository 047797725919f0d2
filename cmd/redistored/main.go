// Command redistored runs the optional RESP front-end (internal/wire)
// over a fresh redistore.Executor. It exists purely to exercise the
// domain-stack dependencies (radix, as an integration-test client;
// go-uuid for per-connection IDs; go-log for lifecycle logging) — it
// is not a hardened production Redis server: no persistence, no
// replication, no cluster mode.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rsms/go-log"

	"github.com/rsms/redistore"
	"github.com/rsms/redistore/internal/wire"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:6380", "address to listen on")
	seed := flag.Int64("seed", 0, "seed for SPOP/SRANDMEMBER/HRANDFIELD/ZRANDMEMBER (0 = time-based)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.RootLogger.Level = log.LevelDebug
	}

	var opts []redistore.Option
	opts = append(opts, redistore.WithLogger(log.RootLogger))
	if *seed != 0 {
		opts = append(opts, redistore.WithSeed(*seed))
	}
	exec := redistore.NewExecutor(opts...)

	srv := &wire.Server{Logger: log.RootLogger, Exec: exec}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		srv.Close()
	}()

	if err := srv.ListenAndServe(*addr); err != nil {
		log.RootLogger.Warn("server exited: %v", err)
		os.Exit(1)
	}
}
