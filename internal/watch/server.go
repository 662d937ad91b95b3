package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/pokertools/tablewatch/internal/game"
)

// Server broadcasts round snapshots to WebSocket observers. It
// implements session.Sink, so a running session can be watched live.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a snapshot broadcaster listening on addr.
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Observers are read-only; any origin may watch.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("watch"),
		conns:  make(map[*websocket.Conn]bool),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting snapshot broadcaster", "addr", s.addr)
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		<-s.ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop disconnects every observer and shuts the listener down.
func (s *Server) Stop() error {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.conns = make(map[*websocket.Conn]bool)
	return nil
}

// Publish sends the snapshot to every connected observer. Observers
// whose write fails are dropped.
func (s *Server) Publish(snap game.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("Failed to marshal snapshot", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Error("Failed to send snapshot", "error", err)
			delete(s.conns, conn)
			_ = conn.Close()
		}
	}
	s.logger.Debug("Broadcasted snapshot", "pot", snap.Pot, "observers", len(s.conns))
}

// ClientCount returns the number of connected observers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	total := len(s.conns)
	s.mu.Unlock()
	s.logger.Info("Observer connected", "total", total)

	go s.readLoop(conn)
}

// readLoop drains the connection so closes and pings are noticed;
// observers never send application messages.
func (s *Server) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	if s.conns[conn] {
		delete(s.conns, conn)
		_ = conn.Close()
	}
	total := len(s.conns)
	s.mu.Unlock()
	s.logger.Info("Observer disconnected", "total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
