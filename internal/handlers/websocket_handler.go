package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/condoguard/frontdesk/internal/observability"
	"github.com/condoguard/frontdesk/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The kiosk UI may be served from a file:// or app origin
		return true
	},
}

// WebSocketHandler streams sync events to the kiosk screens
type WebSocketHandler struct {
	hub    *services.WebSocketHub
	logger *observability.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *services.WebSocketHub, logger *observability.Logger) *WebSocketHandler {
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &WebSocketHandler{hub: hub, logger: logger.WithField("component", "websocket")}
}

// HandleConnection upgrades HTTP to WebSocket and manages the connection.
// ?topics=visits&topics=sync subscribes up front.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := h.hub.NewClient(uuid.New().String(), conn)
	for _, topic := range r.URL.Query()["topics"] {
		h.hub.Subscribe(client, topic)
	}
	h.hub.Register(client)

	go client.WritePump()

	// Blocks until the connection closes
	client.ReadPump(h.handleMessage)
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(client *services.WSClient, data []byte) {
	var msg services.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		client.SendJSON(services.WSMessage{Type: services.WSTypeError, Payload: "invalid message", SentAt: time.Now().UTC()})
		return
	}

	switch msg.Type {
	case services.WSTypeSubscribe:
		if topic := topicOf(msg); topic != "" {
			h.hub.Subscribe(client, topic)
		}

	case services.WSTypeUnsubscribe:
		if topic := topicOf(msg); topic != "" {
			h.hub.Unsubscribe(client, topic)
		}

	case services.WSTypePing:
		client.SendJSON(services.WSMessage{Type: services.WSTypePong, SentAt: time.Now().UTC()})

	default:
		h.logger.WithField("type", msg.Type).Debug("Unknown WebSocket message type")
	}
}

// topicOf accepts {"topic": "visits"} or {"payload": "visits"} or
// {"payload": {"topic": "visits"}}
func topicOf(msg services.WSMessage) string {
	if msg.Topic != "" {
		return msg.Topic
	}
	if topic, ok := msg.Payload.(string); ok {
		return topic
	}
	if payload, ok := msg.Payload.(map[string]interface{}); ok {
		if topic, ok := payload["topic"].(string); ok {
			return topic
		}
	}
	return ""
}
