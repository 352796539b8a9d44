package websocket

import (
	"context"
	"encoding/json"

	"maumjari-counsel-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries session frames between instances.
const ClusterChannel = "counseling_ws_events"

type clusterFrame struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub fans chat replies out to every socket attached to the same session,
// on this instance and, through Redis, on the others.
type Hub struct {
	// session id -> open sockets (several tabs may share one session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// snapshot requests, served by Run so the map is only touched there
	lookup chan lookupRequest
	done   chan struct{}

	instanceID string
	rdb        *redis.Client
	logger     logger.ILogger
}

type lookupRequest struct {
	sessionID string
	reply     chan []*Client
}

// NewHub builds a hub. rdb may be nil for a single instance.
func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		lookup:     make(chan lookupRequest),
		done:       make(chan struct{}),
		instanceID: uuid.NewString(),
		rdb:        rdb,
		logger:     log,
	}
}

// Run owns the client map until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for _, c := range clients {
					c.close()
				}
			}
			h.clients = make(map[string][]*Client)
			return

		case client := <-h.register:
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)

		case req := <-h.lookup:
			clients := h.clients[req.sessionID]
			snapshot := make([]*Client, len(clients))
			copy(snapshot, clients)
			req.reply <- snapshot
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			client.close()
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no sockets left", map[string]interface{}{"session_id": client.SessionID})
	}
}

func (h *Hub) sessionClients(ctx context.Context, sessionID string) []*Client {
	req := lookupRequest{sessionID: sessionID, reply: make(chan []*Client, 1)}
	select {
	case h.lookup <- req:
		return <-req.reply
	case <-h.done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Register attaches client; it reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Deliver sends data to every socket of sessionID, locally and across the cluster.
func (h *Hub) Deliver(ctx context.Context, sessionID string, data []byte) {
	h.deliverLocal(ctx, sessionID, data)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(clusterFrame{Origin: h.instanceID, SessionID: sessionID, Message: data})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish frame to cluster", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (h *Hub) deliverLocal(ctx context.Context, sessionID string, data []byte) {
	for _, client := range h.sessionClients(ctx, sessionID) {
		if !client.enqueue(data) {
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			go h.Unregister(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame clusterFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				h.logger.Warn("Hub", "Cluster frame parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if frame.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(ctx, frame.SessionID, frame.Message)
		}
	}
}
