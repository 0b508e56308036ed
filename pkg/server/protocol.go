package server

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/vbind/pkg/dom"
)

// Message types.
const (
	TypeInput  = "input"
	TypeClick  = "click"
	TypePing   = "ping"
	TypeResync = "resync"

	TypeHello  = "hello"
	TypePatch  = "patch"
	TypeError  = "error"
	TypePong   = "pong"
	TypeReload = "reload"
)

// ClientMessage is a frame sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Ref   string `json:"ref,omitempty"`
	Value string `json:"value,omitempty"`
	After uint64 `json:"after,omitempty"`
}

// ServerMessage is a frame sent to the browser.
type ServerMessage struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	Seq     uint64         `json:"seq,omitempty"`
	Patches []dom.Mutation `json:"patches,omitempty"`
	Message string         `json:"message,omitempty"`
}

// DecodeClientMessage parses a client frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		return msg, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	return msg, nil
}

// Encode marshals the message.
func (m ServerMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
