package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/pkg/serverutils"
	"maumjari-counsel-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	MessageInvalidFrame  = "잘못된 요청 형식입니다."
	MessageTurnQueueFull = "이전 메시지에 답변하는 중입니다. 잠시 후 다시 보내주세요."
)

type ChatHandler struct {
	hub     *Hub
	service service.ICounselingService
	logger  logger.ILogger
}

func NewChatHandler(hub *Hub, service service.ICounselingService, log logger.ILogger) *ChatHandler {
	return &ChatHandler{hub: hub, service: service, logger: log}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/chat", h.ServeWs)
}

// ServeWs upgrades GET /ws/chat?session_id=... and runs the socket pumps.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		sessionID = service.DefaultSessionID
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		client := NewClient(h.hub, conn, sessionID)
		if !h.hub.Register(client) {
			conn.Close()
			return
		}
		go client.writePump()
		client.readPump(h.Chat)
		h.logger.Info("ChatHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

// Chat runs one turn with the same rules as POST /chat.
func (h *ChatHandler) Chat(ctx context.Context, req *dto.ChatRequest) ([]byte, []byte) {
	if err := serverutils.ValidateRequest(*req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return nil, errorFrame(fe.Message)
		}
		return nil, errorFrame(MessageInvalidFrame)
	}

	res, err := h.service.Chat(ctx, req)
	if err != nil {
		h.logger.Error("ChatHandler", "Chat turn failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return nil, errorFrame(serverutils.InternalErrorMessage)
	}

	data, err := json.Marshal(res.Response)
	if err != nil {
		return nil, errorFrame(serverutils.InternalErrorMessage)
	}
	return data, nil
}
