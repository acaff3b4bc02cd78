package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
	"github.com/matzehuels/followgraph/pkg/events"
	"github.com/matzehuels/followgraph/pkg/observability"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = maxBodySize

	sendBuffer = 16
)

// socketMessage is a stylesheet request sent over the socket. Seq is echoed
// back so the client can match replies.
type socketMessage struct {
	Seq int64 `json:"seq"`
	events.StylesheetRequest
}

// socketReply answers one socketMessage. Either the response or the error
// fields are set.
type socketReply struct {
	Seq int64 `json:"seq"`
	*events.StylesheetResponse
	Error string        `json:"error,omitempty"`
	Code  fgerrors.Code `json:"code,omitempty"`
}

// client is one WebSocket connection. Requests are answered in arrival order.
type client struct {
	server   *Server
	conn     *websocket.Conn
	send     chan []byte
	id       string
	messages int
}

// GET /ws
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		id:     uuid.NewString(),
	}
	observability.Server().OnSocketOpen(r.Context(), c.id)
	s.logger.Debug("socket opened", "client", c.id)

	go c.writePump()
	err = c.readPump()
	observability.Server().OnSocketClose(r.Context(), c.id, c.messages, err)
	s.logger.Debug("socket closed", "client", c.id, "messages", c.messages)
}

// readPump reads requests until the connection fails and answers each one
// before reading the next. It closes send on return, which stops writePump.
func (c *client) readPump() error {
	defer close(c.send)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return c.handleReadError(err)
		}
		c.messages++
		reply, err := json.Marshal(c.answer(data))
		if err != nil {
			return err
		}
		c.send <- reply
	}
}

func (c *client) answer(data []byte) socketReply {
	var msg socketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		err = fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "invalid socket message")
		return errorReply(0, err)
	}
	resp, err := c.server.stylesheet(msg.StylesheetRequest)
	if err != nil {
		c.server.logger.Debug("socket request failed", "client", c.id, "seq", msg.Seq, "err", err)
		return errorReply(msg.Seq, err)
	}
	return socketReply{Seq: msg.Seq, StylesheetResponse: resp}
}

func errorReply(seq int64, err error) socketReply {
	code := fgerrors.GetCode(err)
	if code == "" {
		code = fgerrors.ErrCodeInternal
	}
	return socketReply{Seq: seq, Error: fgerrors.UserMessage(err), Code: code}
}

// handleReadError returns nil for the usual ways a browser goes away.
func (c *client) handleReadError(err error) error {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warn("websocket read error", "client", c.id, "err", err)
		return err
	}
	return nil
}

// writePump writes replies and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.drain()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.drain()
				return
			}
		}
	}
}

// drain discards pending replies after a write failure so readPump never
// blocks on a full buffer.
func (c *client) drain() {
	c.conn.Close()
	go func() {
		for range c.send {
		}
	}()
}
