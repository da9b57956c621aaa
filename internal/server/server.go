/*
author: akashmaji
email: akashmaji@iisc.ac.in
file: statedb/internal/server/server.go
*/
package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/namitkewat/statedb/internal/store"
)

// Server holds everything shared across every connection: the
// dataspace, server start time (for INFO's uptime field), and the set
// of live connections tracked so a shutdown signal can close them all,
// the same shape as the teacher's AppState (appstate.go) trimmed of
// its AOF/RDB/transaction/pubsub fields, none of which this spec's
// Non-goals call for.
type Server struct {
	store     *store.Store
	startTime time.Time
	clients   atomic.Int64

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
}

// New returns a Server with an empty dataspace, ready for
// ListenAndServe.
func New() *Server {
	return &Server{
		store:     store.New(),
		startTime: time.Now(),
		conns:     make(map[net.Conn]struct{}),
	}
}

// ClientCount reports the number of currently connected clients.
func (s *Server) ClientCount() int64 {
	return s.clients.Load()
}

func (s *Server) trackConn(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.clients.Add(1)
}

func (s *Server) untrackConn(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.clients.Add(-1)
}

// closeAllConns force-closes every tracked connection, used by
// Shutdown to unblock any worker currently parked in a blocking Read.
func (s *Server) closeAllConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}
