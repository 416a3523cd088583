// Package listener accepts TCP connections and delivers their lines, in
// arrival order, to a LineHandler.
package listener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Greeting is written to every client when it connects.
const Greeting = "Enter a line with only a period to quit"

// quitLine closes the connection that sends it.
const quitLine = "."

// LineHandler consumes one message line.
type LineHandler interface {
	HandleLine(line string)
}

// LineHandlerFunc adapts a function to LineHandler.
type LineHandlerFunc func(line string)

func (f LineHandlerFunc) HandleLine(line string) { f(line) }

// Server is a line-oriented TCP server.
type Server struct {
	addr    string
	handler LineHandler
	logger  *zap.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	ready chan struct{}
	wg    sync.WaitGroup
}

// New creates a Server that will listen on addr.
func New(addr string, handler LineHandler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:    addr,
		handler: handler,
		logger:  logger,
		conns:   make(map[net.Conn]struct{}),
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil before Serve has started listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve listens and handles connections until ctx is cancelled. It closes
// every open connection and waits for their workers before returning.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("tcp listener started", zap.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
		s.closeConns()
	})
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}
		if !s.track(conn) {
			_ = conn.Close()
			break
		}
		s.wg.Add(1)
		go s.handle(conn)
	}

	s.wg.Wait()
	s.logger.Info("tcp listener stopped", zap.String("addr", ln.Addr().String()))
	return nil
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	log := s.logger.With(
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	log.Info("connection opened")

	if _, err := io.WriteString(conn, Greeting+"\n"); err != nil {
		log.Warn("failed to greet client", zap.Error(err))
		return
	}

	lines := 0
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Text()
		if line == quitLine {
			break
		}
		lines++
		s.handler.HandleLine(line)
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warn("connection read failed", zap.Error(err))
	}
	log.Info("connection closed", zap.Int("lines", lines))
}
