package connection

import (
	"context"
	"encoding/base64"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	writeWait         time.Duration = time.Second * 10

	// Frames a client can send ahead of being asked
	inboxSize = 16
)

// Session owns one websocket connection. Reads happen on a single
// goroutine (Listen) and are handed out through Receive; writes are
// serialized by writeMu so two goroutines never interleave frames.
type Session struct {
	id        string
	conn      *websocket.Conn
	writeMu   sync.Mutex
	inbox     chan []byte
	done      chan struct{}
	closeOnce sync.Once
	createdAt time.Time
}

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		id:        base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String())),
		conn:      conn,
		inbox:     make(chan []byte, inboxSize),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// Done is closed once the connection can no longer be read.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Listen pumps incoming frames into the inbox until the connection
// fails. It must run on its own goroutine, once per session.
func (s *Session) Listen() {
	defer close(s.done)

	var retries uint8
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := s.conn.ReadMessage()
		if err == nil {
			retries = 0
			select {
			case s.inbox <- payload:
			default:
				log.Printf("inbox full for session [%s]; dropping frame\n", s.id)
			}
			continue
		}

		if s.handleReadFromConnErr(err, retries) == ConnLoopContinue {
			retries++
			continue
		}
		return
	}
}

// Receive waits for the next frame from the client. It gives up when
// ctx is done or the connection is gone.
func (s *Session) Receive(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-s.inbox:
		return payload, nil

	case <-s.done:
		// frames that arrived right before the close are still valid
		select {
		case payload := <-s.inbox:
			return payload, nil
		default:
			return nil, NewConnErr(ConnClosed).AddDesc("session closed: " + s.id)
		}

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain discards frames the client sent before being asked for
// anything.
func (s *Session) Drain() int {
	discarded := 0
	for {
		select {
		case <-s.inbox:
			discarded++
		default:
			return discarded
		}
	}
}

// Send writes msg as JSON, retrying on timeouts.
func (s *Session) Send(msg interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.writeToConnWithRetry(msg)
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		log.Println("close error:", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Println("critical error:", err)
		return ConnLoopBreak
	}

	/*
		This might mean that the client is not a game client.
		Breaking not to overwhelm the server with invalid payloads (e.g. binary data)
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Println("non-critical error:", err)
		return ConnLoopBreak
	}

	log.Println("unexpected error:", err)
	return ConnLoopBreak
}

// Writes to the connection of that session and handles
// the errors of writing to a websocket connection.
func (s *Session) writeToConnWithRetry(msg interface{}) error {
	var retries uint8

writeJsonLoop:
	for {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := s.conn.WriteJSON(msg)
		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Printf("writing json failed to ws [%s]; retrying... (retry no. %d)\n", s.RemoteAddr(), retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue writeJsonLoop
			}
			log.Printf("max retries reached for writing to ws [%s]:%s", s.RemoteAddr(), err)
			return NewConnErr(ConnLoopBreak).AddDesc(err.Error())

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking writeJsonLoop due to:" + err.Error())
		}
	}
}

// Handles the errors that occur when reading from
// ws connection. Anything but ConnLoopContinue ends Listen.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			log.Printf("failed to read from ws conn [%s]; retrying... (retry no. %d)\n", s.RemoteAddr(), retries)
			time.Sleep(time.Duration((retries+1)*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		log.Printf("break ws conn loop [%s] due to: %s\n", s.RemoteAddr(), err)
		return ConnLoopBreak
	}
}
