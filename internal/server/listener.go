package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const shutdownTimeout = 2 * time.Second

// Listener is a short-lived HTTP server bound to a loopback address.
//
// The socket is bound in [Listener.Start] so it exists before anyone is sent to it. Stop is idempotent and safe to
// call from any goroutine, including a handler via [Listener.RequestStop].
type Listener struct {
	addr    string
	handler http.Handler
	logger  *log.Logger

	mu      sync.Mutex
	ln      net.Listener
	server  *http.Server
	stopped bool

	errs     chan error
	stopOnce sync.Once
	stopErr  error
	done     chan struct{}
}

// NewListener creates a listener for addr ("host:port"; port 0 picks a free port).
func NewListener(addr string, handler http.Handler, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Listener{
		addr:    addr,
		handler: handler,
		logger:  logger,
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// Start binds the address and begins serving in the background.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return errors.New("listener already stopped")
	}
	if l.ln != nil {
		return errors.New("listener already started")
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.addr, err)
	}

	l.ln = ln
	l.server = &http.Server{Handler: l.handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		defer close(l.done)
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errs <- err
		}
	}()

	l.logger.Debug("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln != nil {
		return l.ln.Addr().String()
	}
	return l.addr
}

// Errors delivers a serve failure, if one happens.
func (l *Listener) Errors() <-chan error {
	return l.errs
}

// RequestStop stops the server on a separate goroutine so a handler can trigger shutdown without waiting on itself.
func (l *Listener) RequestStop() {
	go l.Stop()
}

// Stop shuts the server down and releases the socket. Only the first call does any work.
func (l *Listener) Stop() error {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopped = true
		server := l.server
		l.mu.Unlock()

		if server == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			l.logger.Warn("graceful shutdown failed, closing", "error", err)
			l.stopErr = server.Close()
		}
		<-l.done
		l.logger.Debug("listener stopped")
	})
	return l.stopErr
}
