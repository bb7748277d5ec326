package preview

import (
	"context"
	_ "embed"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mark3labs/stepdeck/internal/logger"
)

//go:embed shell.html
var shellPage string

// Server coordinates HTTP serving and websocket updates for browsers that
// follow the presentation.
type Server struct {
	// OnNavigate is invoked when a browser moves its step slider. It runs on
	// the server's loop goroutine.
	OnNavigate func(NavigateMessage)

	mu       sync.Mutex
	started  bool
	listener net.Listener
	server   *http.Server

	browserInbound chan []byte
	updates        chan RenderMessage
	register       chan *websocket.Conn
	unregister     chan *websocket.Conn
	stopLoop       chan struct{}
	loopDone       chan struct{}

	upgrader websocket.Upgrader
}

// NewServer creates an idle preview server.
func NewServer() *Server {
	return &Server{
		browserInbound: make(chan []byte, 64),
		updates:        make(chan RenderMessage, 8),
		register:       make(chan *websocket.Conn),
		unregister:     make(chan *websocket.Conn),
		stopLoop:       make(chan struct{}),
		loopDone:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves the
// preview shell.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	s.listener = ln
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.started = true

	go s.runLoop()
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("preview server: %v", err)
		}
	}()

	logger.Info("preview server listening on %s", ln.Addr())
	return nil
}

// URL returns the browser URL, or "" before Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Publish pushes a rendered document to every connected browser and keeps it
// for browsers that connect later.
func (s *Server) Publish(doc string, index, total int) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}

	msg := RenderMessage{Type: MessageTypeRender, HTML: doc, Index: index, Total: total}
	select {
	case s.updates <- msg:
	case <-s.stopLoop:
	}
}

// Stop gracefully shuts down the HTTP server and run loop.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	close(s.stopLoop)
	<-s.loopDone

	s.started = false
	s.server = nil
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(shellPage))
}

// handleWS upgrades the connection and forwards browser messages to the loop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	select {
	case s.register <- conn:
	case <-s.stopLoop:
		_ = conn.Close()
		return
	}
	defer func() {
		select {
		case s.unregister <- conn:
		case <-s.stopLoop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case s.browserInbound <- msg:
		case <-s.stopLoop:
			return
		}
	}
}

// runLoop serializes state updates and websocket writes on a single goroutine.
func (s *Server) runLoop() {
	defer close(s.loopDone)

	conns := make(map[*websocket.Conn]struct{})
	last := RenderMessage{Type: MessageTypeRender}

	broadcast := func(msg RenderMessage) {
		for c := range conns {
			if !writeJSON(c, msg) {
				delete(conns, c)
			}
		}
	}

	for {
		select {
		case update := <-s.updates:
			update.Rev = last.Rev + 1
			last = update
			broadcast(last)

		case c := <-s.register:
			conns[c] = struct{}{}
			if last.Rev > 0 && !writeJSON(c, last) {
				delete(conns, c)
			}

		case c := <-s.unregister:
			if _, ok := conns[c]; ok {
				_ = c.Close()
				delete(conns, c)
			}

		case raw := <-s.browserInbound:
			var envelope IncomingMessage
			if err := json.Unmarshal(raw, &envelope); err != nil {
				continue
			}
			switch envelope.Type {
			case MessageTypeNavigate:
				var msg NavigateMessage
				if err := json.Unmarshal(raw, &msg); err != nil {
					continue
				}
				if s.OnNavigate != nil {
					s.OnNavigate(msg)
				}
			}

		case <-s.stopLoop:
			for c := range conns {
				_ = c.Close()
			}
			return
		}
	}
}

// writeJSON writes a JSON message and reports whether the connection is usable.
func writeJSON(conn *websocket.Conn, v any) bool {
	if err := conn.WriteJSON(v); err != nil {
		_ = conn.Close()
		return false
	}
	return true
}
