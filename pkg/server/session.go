package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/middleware"
)

// Session is one connected page. Its document and Instance are only
// touched from the goroutine running ReadLoop.
type Session struct {
	id      string
	conn    *websocket.Conn
	page    *Page
	config  *Config
	logger  *slog.Logger
	created time.Time

	seq     atomic.Uint64
	pending []dom.Mutation
	history *patchHistory

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	onClose   func(*Session)
}

func newSession(id string, conn *websocket.Conn, page *Page, config *Config) *Session {
	s := &Session{
		id:      id,
		conn:    conn,
		page:    page,
		config:  config,
		logger:  config.Logger.With("session", id),
		created: time.Now(),
		history: newPatchHistory(config.MaxPatchHistory),
	}
	page.Doc.OnMutation(func(m dom.Mutation) {
		s.pending = append(s.pending, m)
	})
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Page returns the session's document and Instance.
func (s *Session) Page() *Page {
	return s.page
}

// Seq returns the sequence number of the last patch sent.
func (s *Session) Seq() uint64 {
	return s.seq.Load()
}

// CreatedAt returns when the session connected.
func (s *Session) CreatedAt() time.Time {
	return s.created
}

// ReadLoop reads and applies client messages until the connection closes.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		if err := s.handle(data); err != nil {
			if errors.Is(err, ErrSessionClosed) {
				return
			}
			s.logger.Error("handle message", "error", err)
			return
		}
	}
}

// handle applies one client frame. Protocol problems are reported to the
// client; only write failures are returned.
func (s *Session) handle(data []byte) error {
	msg, err := DecodeClientMessage(data)
	if err != nil {
		middleware.RecordProtocolError("decode")
		s.logger.Debug("bad frame", "error", err)
		return s.sendError(err.Error())
	}

	switch msg.Type {
	case TypePing:
		return s.send(ServerMessage{Type: TypePong})

	case TypeInput, TypeClick:
		el, ok := s.page.Doc.ByRef(msg.Ref)
		if !ok {
			middleware.RecordProtocolError("unknown_ref")
			return s.sendError(fmt.Sprintf("%v %q", ErrUnknownRef, msg.Ref))
		}
		middleware.RecordEvent(msg.Type)
		if err := s.dispatch(el, msg); err != nil {
			s.logger.Error("event handler failed", "ref", msg.Ref, "type", msg.Type, "error", err)
			if werr := s.sendError(err.Error()); werr != nil {
				return werr
			}
		}
		return s.flush()

	case TypeResync:
		return s.resync(msg.After)

	default:
		middleware.RecordProtocolError("unknown_type")
		return s.sendError(fmt.Sprintf("%v: unknown type %q", ErrInvalidMessage, msg.Type))
	}
}

// dispatch runs the event, converting a panicking method into an error.
func (s *Session) dispatch(el *dom.Element, msg ClientMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewSessionError(s.id, msg.Type, fmt.Errorf("panic: %v", r))
		}
	}()
	if msg.Type == TypeInput {
		s.page.Doc.Input(el, msg.Value)
	} else {
		s.page.Doc.Click(el)
	}
	return nil
}

// flush sends the mutations collected since the last flush as one patch.
func (s *Session) flush() error {
	msg := ServerMessage{Type: TypePatch, Seq: s.seq.Add(1), Patches: s.pending}
	s.pending = nil

	frame, err := msg.Encode()
	if err != nil {
		return NewSessionError(s.id, "encode patch", err)
	}
	if err := s.write(frame); err != nil {
		return err
	}
	s.history.add(msg.Seq, frame)
	middleware.RecordPatches(len(msg.Patches))
	return nil
}

// resync replays patches after seq, or asks the client to reload when
// they are no longer available.
func (s *Session) resync(after uint64) error {
	frames, ok := s.history.framesAfter(after)
	if !ok {
		s.logger.Debug("resync gap, reloading", "after", after, "oldest", s.history.minSeq())
		return s.send(ServerMessage{Type: TypeReload})
	}
	for _, frame := range frames {
		if err := s.write(frame); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) hello() error {
	return s.send(ServerMessage{Type: TypeHello, Session: s.id})
}

func (s *Session) sendError(message string) error {
	return s.send(ServerMessage{Type: TypeError, Message: message})
}

func (s *Session) send(msg ServerMessage) error {
	frame, err := msg.Encode()
	if err != nil {
		return NewSessionError(s.id, "encode", err)
	}
	return s.write(frame)
}

func (s *Session) write(frame []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return NewSessionError(s.id, "write", fmt.Errorf("%w: %v", ErrSessionClosed, err))
	}
	return nil
}

// Close closes the connection. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		s.writeMu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = s.conn.Close()
		s.writeMu.Unlock()

		if s.onClose != nil {
			s.onClose(s)
		}
		s.logger.Debug("session closed", "patches", s.seq.Load())
	})
	return err
}
