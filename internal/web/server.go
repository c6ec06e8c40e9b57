package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"tankbot/internal/game"
	tnet "tankbot/internal/net"
)

//go:embed static
var staticFiles embed.FS

// Server is a live spectator: it keeps the latest decoded snapshot and
// pushes each new one to every connected browser.
type Server struct {
	mux *http.ServeMux

	mu       sync.Mutex
	latest   []byte
	watchers map[chan []byte]struct{}
}

// NewServer creates a spectator server with no snapshot yet.
func NewServer() *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		watchers: make(map[chan []byte]struct{}),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Publish flattens a snapshot and fans it out to all spectators.
func (s *Server) Publish(state *game.GameState) {
	data, err := json.Marshal(tnet.BuildStateView(state))
	if err != nil {
		log.Printf("marshal snapshot: %v", err)
		return
	}
	s.mu.Lock()
	s.latest = data
	for ch := range s.watchers {
		select {
		case ch <- data:
		default:
			// Swap out the stale queued snapshot; only Publish sends,
			// so the freed slot cannot be refilled underneath us.
			select {
			case <-ch:
			default:
			}
			ch <- data
		}
	}
	s.mu.Unlock()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ch := make(chan []byte, 1)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	latest := s.latest
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
	}()

	// Spectators never send anything; CloseRead surfaces disconnects.
	ctx := wsConn.CloseRead(r.Context())

	if latest != nil {
		if err := wsConn.Write(ctx, websocket.MessageText, latest); err != nil {
			return
		}
	}
	for {
		select {
		case data := <-ch:
			if err := wsConn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		case <-ctx.Done():
			wsConn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
	}
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
