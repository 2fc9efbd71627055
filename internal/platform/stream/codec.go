package stream

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
)

// Codec encodes frames for one connection.
type Codec interface {
	Name() string
	Encode(f arkanoid.Frame) (messageType int, data []byte, err error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(f arkanoid.Frame) (int, []byte, error) {
	data, err := json.Marshal(f)
	return websocket.TextMessage, data, err
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Encode(f arkanoid.Frame) (int, []byte, error) {
	data, err := msgpack.Marshal(f)
	return websocket.BinaryMessage, data, err
}

// CodecFor returns the codec for a ?format= value. Empty means JSON.
func CodecFor(format string) (Codec, error) {
	switch format {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("stream: unknown format %q", format)
	}
}

// Command is a control message from a client. Text messages carry JSON,
// binary messages carry msgpack.
type Command struct {
	Action string  `json:"action,omitempty" msgpack:"action,omitempty"` // Left, Right, Launch, Pause or Restart
	DragX  float64 `json:"drag_x,omitempty" msgpack:"drag_x,omitempty"` // Paddle offset in world units
}

// remoteActions are the actions a client may trigger.
var remoteActions = map[core.Action]bool{
	core.ActionLeft:    true,
	core.ActionRight:   true,
	core.ActionLaunch:  true,
	core.ActionPause:   true,
	core.ActionRestart: true,
}

// DecodeCommand parses a client message into an input frame.
func DecodeCommand(messageType int, data []byte) (core.InputFrame, error) {
	var cmd Command
	var err error
	switch messageType {
	case websocket.TextMessage:
		err = json.Unmarshal(data, &cmd)
	case websocket.BinaryMessage:
		err = msgpack.Unmarshal(data, &cmd)
	default:
		err = fmt.Errorf("unsupported message type %d", messageType)
	}
	if err != nil {
		return core.InputFrame{}, fmt.Errorf("stream: bad command: %w", err)
	}

	in := core.NewInputFrame()
	if cmd.Action != "" {
		a := core.ParseAction(cmd.Action)
		if !remoteActions[a] {
			return core.InputFrame{}, fmt.Errorf("stream: action %q not allowed", cmd.Action)
		}
		in.Set(a)
	}
	in.Drag(cmd.DragX)
	return in, nil
}
