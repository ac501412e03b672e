package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/eternalApril/moonmock/internal/resp"
	"go.uber.org/zap"
)

// Server accepts RESP connections and serves each one on its own goroutine
type Server struct {
	engine *Engine
	logger *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	peers    map[*Peer]struct{}
	wg       sync.WaitGroup
	closing  atomic.Bool
}

// NewServer creates a server running commands through engine
func NewServer(engine *Engine, logger *zap.Logger) *Server {
	return &Server{
		engine: engine,
		logger: logger,
		peers:  make(map[*Peer]struct{}),
	}
}

// Serve accepts connections on l until Shutdown is called. It returns nil after a shutdown
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closing.Load() {
		s.mu.Unlock()
		return l.Close()
	}
	s.listener = l
	s.mu.Unlock()

	s.logger.Info("listening on", zap.String("address", l.Addr().String()))

	for {
		conn, err := l.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("Accept error", zap.Error(err))
			continue
		}

		peer := NewPeer(conn, s.engine.NewClient())
		if !s.track(peer) {
			peer.Close() //nolint:errcheck
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(peer)
			s.handleConnection(peer)
		}()
	}
}

// Shutdown stops accepting connections and waits for open ones to finish.
// When ctx ends first, the remaining connections are closed and ctx's error is returned
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing.Store(true)
	if s.listener != nil {
		s.listener.Close() //nolint:errcheck
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("All connections closed gracefully")
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for peer := range s.peers {
			peer.Close() //nolint:errcheck
		}
		s.mu.Unlock()
		<-done
		return ctx.Err()
	}
}

func (s *Server) track(p *Peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return false
	}
	s.peers[p] = struct{}{}
	return true
}

func (s *Server) untrack(p *Peer) {
	s.mu.Lock()
	delete(s.peers, p)
	s.mu.Unlock()
}

// handleConnection handles a connection for a single user
func (s *Server) handleConnection(peer *Peer) {
	log := s.logger
	if log.Core().Enabled(zap.DebugLevel) {
		log.Debug("client connected", zap.String("addr", peer.RemoteAddr()))
	}

	defer func() {
		peer.Close() //nolint:errcheck
		// log connection close
		if log.Core().Enabled(zap.DebugLevel) {
			log.Debug("client disconnected", zap.String("addr", peer.RemoteAddr()))
		}
	}()

	for {
		cmdValue, err := peer.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}

			log.Warn("read command failed", zap.Error(err))
			var netErr net.Error
			if !errors.As(err, &netErr) {
				// protocol error: report it and drop the connection
				if peer.Send(resp.MakeError("ERR Protocol error: "+err.Error())) == nil {
					peer.Flush() //nolint:errcheck
				}
			}
			return
		}

		if cmdValue.Type != resp.TypeArray {
			log.Error("invalid request type")
			continue
		}

		if len(cmdValue.Array) == 0 {
			continue
		}

		commandName := cmdValue.Array[0].Text()

		args := cmdValue.Array[1:]

		result := s.engine.Execute(peer.Client(), commandName, args)

		if err = peer.Send(result); err != nil {
			log.Error("error writing response:", zap.Error(err))
			return
		}

		if peer.InputBuffered() == 0 || peer.Client().Closed() {
			if err := peer.Flush(); err != nil {
				return
			}
		}

		if peer.Client().Closed() {
			return
		}
	}
}
