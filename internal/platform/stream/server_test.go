package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/physics"
	"github.com/vovakirdan/arkanoid/internal/platform/headless"
)

// startServer runs a real game behind an httptest server.
func startServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	cfg := config.Default()
	lvl, err := level.Get(level.DefaultID)
	if err != nil {
		t.Fatalf("level.Get() failed: %v", err)
	}
	layout, err := level.Build(cfg, lvl)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	loop, err := arkanoid.New(layout, physics.Factory(physics.DefaultOptions()), arkanoid.Options{})
	if err != nil {
		t.Fatalf("arkanoid.New() failed: %v", err)
	}

	runner := headless.New(loop, headless.Options{FPS: 60, PaddleStep: 3})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()

	srv := NewServer(runner, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		cancel()
		<-done
		ts.Close()
	})
	return ts, srv
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func paddleX(f arkanoid.Frame) float64 {
	for _, e := range f.Entities {
		if e.Name == "Paddle" {
			return e.X
		}
	}
	return 0
}

func TestStreamJSONFrames(t *testing.T) {
	ts, _ := startServer(t)
	conn := dial(t, ts, "")

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f arkanoid.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() failed: %v", err)
	}
	if f.TotalBricks != 35 || f.Lives != 3 || f.Level != "classic" {
		t.Errorf("frame = level %q total %d lives %d", f.Level, f.TotalBricks, f.Lives)
	}
	if len(f.Entities) != 37 {
		t.Errorf("entities = %d, want 37", len(f.Entities))
	}
}

func TestStreamMsgpackFrames(t *testing.T) {
	ts, _ := startServer(t)
	conn := dial(t, ts, "?format=msgpack")

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", msgType)
	}
	var f arkanoid.Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		t.Fatalf("msgpack.Unmarshal() failed: %v", err)
	}
	if f.TotalBricks != 35 {
		t.Errorf("TotalBricks = %d, want 35", f.TotalBricks)
	}
}

func TestStreamCommandMovesPaddle(t *testing.T) {
	ts, _ := startServer(t)
	conn := dial(t, ts, "")

	if err := conn.WriteJSON(Command{Action: "Right"}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var f arkanoid.Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON() failed: %v", err)
		}
		if paddleX(f) > 2.9 {
			return
		}
	}
	t.Error("paddle never moved right")
}

func TestStreamRejectsUnknownFormat(t *testing.T) {
	ts, _ := startServer(t)

	resp, err := http.Get(ts.URL + "/ws?format=xml")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStreamHealthz(t *testing.T) {
	ts, _ := startServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDecodeCommand(t *testing.T) {
	packed, err := msgpack.Marshal(Command{DragX: -1.5})
	if err != nil {
		t.Fatalf("msgpack.Marshal() failed: %v", err)
	}

	tests := []struct {
		name    string
		msgType int
		data    []byte
		action  core.Action
		drag    float64
		wantErr bool
	}{
		{"json launch", websocket.TextMessage, []byte(`{"action":"Launch"}`), core.ActionLaunch, 0, false},
		{"json drag", websocket.TextMessage, []byte(`{"drag_x":2.5}`), core.ActionNone, 2.5, false},
		{"msgpack drag", websocket.BinaryMessage, packed, core.ActionNone, -1.5, false},
		{"quit not allowed", websocket.TextMessage, []byte(`{"action":"Quit"}`), core.ActionNone, 0, true},
		{"unknown action", websocket.TextMessage, []byte(`{"action":"Jump"}`), core.ActionNone, 0, true},
		{"bad json", websocket.TextMessage, []byte(`{`), core.ActionNone, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, err := DecodeCommand(tc.msgType, tc.data)
			if (err != nil) != tc.wantErr {
				t.Fatalf("DecodeCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if tc.action != core.ActionNone && !in.Has(tc.action) {
				t.Errorf("action %v not set", tc.action)
			}
			if in.DragX != tc.drag {
				t.Errorf("DragX = %v, want %v", in.DragX, tc.drag)
			}
		})
	}
}
