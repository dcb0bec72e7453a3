package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yuvrajy/SomethingFishy/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client is one player's WebSocket connection
type Client struct {
	conn     *websocket.Conn
	hub      *Hub
	roomCode model.RoomCode
	playerID model.PlayerID
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client bound to a player's seat
func NewClient(conn *websocket.Conn, hub *Hub, roomCode model.RoomCode, playerID model.PlayerID, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		roomCode: roomCode,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Send queues a message for delivery. Messages are dropped rather than
// blocking game processing when a peer cannot keep up.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped",
			slog.String("room_code", string(c.roomCode)),
			slog.Int("player_id", int(c.playerID)),
		)
		return nil
	}
}

// Close shuts the connection down
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps; it returns when the
// connection drops.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

// readPump pumps messages from the WebSocket connection into the hub
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Close()
		// The request context is dead once the socket drops; cleanup must
		// still run.
		c.hub.HandleDisconnect(context.Background(), c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			break
		}

		c.handleMessage(ctx, message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches an incoming intent to the hub
func (c *Client) handleMessage(ctx context.Context, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "invalid message format")
		return
	}

	switch msg.Type {
	case MsgStartGame:
		c.hub.HandleStartGame(ctx, c)
	case MsgMakeGuess:
		c.handleMakeGuess(ctx, msg.Payload)
	case MsgSkipQuestion:
		c.hub.HandleSkipQuestion(ctx, c)
	case MsgPing:
		c.Send(c.hub.newMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "unknown message type")
	}
}

func (c *Client) handleMakeGuess(ctx context.Context, payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "invalid payload")
		return
	}

	targetID, ok := payloadMap["target_id"].(float64)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "target_id is required")
		return
	}

	c.hub.HandleGuess(ctx, c, model.PlayerID(targetID))
}

func (c *Client) sendError(code, message string) {
	c.Send(c.hub.newMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
