package wire

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/rsms/go-log"
	"github.com/rsms/go-uuid"

	"github.com/rsms/redistore"
)

// Server is the optional RESP front-end: it owns the network listener
// and per-connection framing, and calls into an *redistore.Executor for
// every decoded command. The core executor never imports this package.
type Server struct {
	Logger *log.Logger // nil-safe; nil disables lifecycle logging

	Exec     *redistore.Executor
	listener net.Listener
	done     chan struct{} // closed by Close; cancels every in-flight blocking command
}

// ListenAndServe opens addr and serves connections until Close is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.done = make(chan struct{})
	if s.Logger != nil {
		s.Logger.Info("listening on %s", addr)
	}
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.serve(conn)
	}
}

// Close stops accepting new connections and cancels every blocking
// command currently waiting inside Exec (caller-level cancellation).
// Like the rest of this package, this server is a thin exercise harness
// that keeps the network listener out of the core executor, not a
// hardened production Redis server: a per-connection blocked command is
// only interrupted on full server shutdown, not on that one client
// disconnecting mid-wait.
func (s *Server) Close() error {
	if s.done != nil {
		close(s.done)
	}
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) serve(conn net.Conn) {
	connID := uuid.MustGen().String()
	if s.Logger != nil {
		s.Logger.Info("conn %s: connected from %s", connID, conn.RemoteAddr())
	}
	defer func() {
		conn.Close()
		if s.Logger != nil {
			s.Logger.Info("conn %s: disconnected", connID)
		}
	}()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		args, err := ReadCommand(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				if s.Logger != nil {
					s.Logger.Warn("conn %s: read error: %v", connID, err)
				}
			}
			return
		}
		if args == nil {
			continue
		}

		reply, ok := s.Exec.Exec(args, s.done)
		if !ok {
			// server shutdown fired mid-wait: no reply to send.
			return
		}

		buf := AppendReply(nil, reply)
		if _, err := w.Write(buf); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
