// Package inspect serves a line-oriented TCP protocol for reading the recent
// log buffer from a terminal, e.g. `nc localhost 9000`.
package inspect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/logsim"
	"github.com/lixenwraith/logsim/compat"
	"github.com/panjf2000/gnet/v2"
)

// Longest command line accepted before the connection is dropped
const maxLineLength = 1024

var (
	// ErrNotRunning is returned by Stop before the engine has booted
	ErrNotRunning = errors.New("inspect: server not running")
	// ErrFatal wraps a fatal condition reported by the gnet engine
	ErrFatal = errors.New("inspect: fatal engine error")
)

// Server is a gnet event handler answering inspect commands
type Server struct {
	gnet.BuiltinEventEngine

	logger *logsim.Logger
	addr   string

	mu     sync.Mutex
	eng    gnet.Engine
	booted bool
	ready  chan struct{}
	fatal  chan error
}

// New creates an inspect server for logger listening on addr (host:port)
func New(logger *logsim.Logger, addr string) *Server {
	return &Server{
		logger: logger,
		addr:   addr,
		ready:  make(chan struct{}),
		fatal:  make(chan error, 1),
	}
}

// Run starts the event loops and blocks until Stop
func (s *Server) Run() error {
	adapter, err := compat.NewBuilder().
		WithLogger(s.logger).
		BuildGnet(compat.WithFatalHandler(s.reportFatal))
	if err != nil {
		return err
	}
	return gnet.Run(s, "tcp://"+s.addr,
		gnet.WithMulticore(true),
		gnet.WithLogger(adapter),
	)
}

// Fatal delivers the first fatal condition logged by the engine. The process
// is left running so the owner can shut down and close its sink.
func (s *Server) Fatal() <-chan error {
	return s.fatal
}

// reportFatal replaces gnet's default exit on Fatalf
func (s *Server) reportFatal(msg string) {
	select {
	case s.fatal <- fmt.Errorf("%w: %s", ErrFatal, msg):
	default:
	}
}

// Ready is closed once the listener is accepting connections
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Stop shuts the engine down, waiting until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	eng, booted := s.eng, s.booted
	s.mu.Unlock()

	if !booted {
		return ErrNotRunning
	}
	return eng.Stop(ctx)
}

// OnBoot records the engine so Stop can reach it
func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.mu.Lock()
	s.eng = eng
	s.booted = true
	s.mu.Unlock()

	s.logger.Info("Inspect interface listening on " + s.addr)
	close(s.ready)
	return gnet.None
}

// OnTraffic answers every complete line in the inbound buffer. Partial lines
// stay buffered until their newline arrives.
func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Peek(-1)
	if err != nil {
		return gnet.Close
	}

	consumed := 0
	for {
		idx := bytes.IndexByte(buf[consumed:], '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(buf[consumed:consumed+idx], "\r"))
		consumed += idx + 1

		reply, quit := Execute(s.logger, line)
		if reply != "" {
			if _, err := c.Write([]byte(reply)); err != nil {
				return gnet.Close
			}
		}
		if quit {
			return gnet.Close
		}
	}

	if len(buf)-consumed > maxLineLength {
		_, _ = c.Write([]byte("ERR line too long\n"))
		return gnet.Close
	}

	if consumed > 0 {
		_, _ = c.Discard(consumed)
	}
	return gnet.None
}
