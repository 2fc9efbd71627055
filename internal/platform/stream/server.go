// Package stream serves live arkanoid frames over websockets and accepts
// paddle commands from the connected clients.
package stream

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/platform/headless"
)

const (
	writeWait      = 2 * time.Second
	pingInterval   = 10 * time.Second
	pongWait       = 3 * pingInterval
	maxCommandSize = 512
	frameBuffer    = 8
)

// Server streams frames from a headless runner.
type Server struct {
	runner   *headless.Runner
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients int
}

// NewServer creates a stream server for the runner.
func NewServer(runner *headless.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		runner: runner,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handler returns the HTTP routes: /ws for the stream, /healthz for probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

func (s *Server) track(delta int) {
	s.mu.Lock()
	s.clients += delta
	s.mu.Unlock()
}

// ServeWS upgrades the request and streams frames until either side closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecFor(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.track(1)
	defer s.track(-1)

	logger := s.logger.With("remote", r.RemoteAddr, "format", codec.Name())
	logger.Info("client connected")

	frames, unsubscribe := s.runner.Subscribe(frameBuffer)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop(conn, codec, frames, done, logger)
	}()

	s.readLoop(conn, logger)

	close(done)
	unsubscribe()
	wg.Wait()
	conn.Close()
	logger.Info("client disconnected")
}

// writeLoop is the only writer on conn.
func (s *Server) writeLoop(conn *websocket.Conn, codec Codec, frames <-chan arkanoid.Frame, done <-chan struct{}, logger *log.Logger) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case f, ok := <-frames:
			if !ok {
				// Runner stopped
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game stopped"))
				conn.Close()
				return
			}
			msgType, data, err := codec.Encode(f)
			if err != nil {
				logger.Error("cannot encode frame", "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(msgType, data); err != nil {
				logger.Debug("write failed", "error", err)
				conn.Close()
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

// readLoop forwards client commands to the runner until the connection
// fails.
func (s *Server) readLoop(conn *websocket.Conn, logger *log.Logger) {
	conn.SetReadLimit(maxCommandSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("read failed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		in, err := DecodeCommand(msgType, data)
		if err != nil {
			logger.Warn("command rejected", "error", err)
			continue
		}
		if _, err := s.runner.Send(in); err != nil {
			return
		}
	}
}
