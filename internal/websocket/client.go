package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"maumjari-counsel-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
	turnQueue      = 4
)

// ChatFunc answers one inbound frame. The returned bytes go to every socket
// of the session; an error frame goes back to the sender only.
type ChatFunc func(ctx context.Context, req *dto.ChatRequest) (reply []byte, errFrame []byte)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{Hub: hub, Conn: conn, SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
}

// enqueue never blocks; it reports false when the buffer is full.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// readPump reads frames and hands them to serveTurns, so pongs keep being
// processed while a turn is generating. Turns still in flight when the
// socket goes away are cancelled.
func (c *Client) readPump(chat ChatFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	turns := make(chan *dto.ChatRequest, turnQueue)
	served := make(chan struct{})
	go func() {
		defer close(served)
		c.serveTurns(ctx, chat, turns)
	}()

	defer func() {
		cancel()
		close(turns)
		<-served
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}

		var req dto.ChatRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			c.enqueue(errorFrame(MessageInvalidFrame))
			continue
		}
		c.dispatch(turns, &req)
	}
}

// dispatch queues a turn without blocking the read loop.
func (c *Client) dispatch(turns chan<- *dto.ChatRequest, req *dto.ChatRequest) {
	// A socket is bound to one session.
	req.SessionId = c.SessionID

	select {
	case turns <- req:
	default:
		c.enqueue(errorFrame(MessageTurnQueueFull))
	}
}

// serveTurns runs queued turns one at a time until turns is closed.
func (c *Client) serveTurns(ctx context.Context, chat ChatFunc, turns <-chan *dto.ChatRequest) {
	for req := range turns {
		if ctx.Err() != nil {
			continue
		}

		reply, errFrame := chat(ctx, req)
		if errFrame != nil {
			c.enqueue(errFrame)
			continue
		}
		// Other sockets of the session still get the reply after the sender left.
		c.Hub.Deliver(context.WithoutCancel(ctx), c.SessionID, reply)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One JSON document per frame.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorFrame(message string) []byte {
	data, _ := json.Marshal(map[string]string{"error": message})
	return data
}
