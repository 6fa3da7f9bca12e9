package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/BlaJam82/chat-app/internal/auth"
	"github.com/BlaJam82/chat-app/internal/models"
	"github.com/BlaJam82/chat-app/internal/observability"
)

// SocketHandler owns the websocket endpoint: it resolves the optional
// identity, upgrades the connection, and pumps incoming events into the
// Coordinator.
type SocketHandler struct {
	hub         *Hub
	coordinator *Coordinator
	tokens      *auth.TokenManager
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(hub *Hub, coordinator *Coordinator, tokens *auth.TokenManager) *SocketHandler {
	return &SocketHandler{hub: hub, coordinator: coordinator, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and runs its read loop to completion.
// Unauthenticated connections are admitted; the Coordinator degrades their
// room actions to ephemeral membership.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("chat-app/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()

	identity := h.resolveIdentity(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, identity)
	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	ip := observability.IPFromRequest(c.Request)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	publishLifecycleEvent(ctx, "ws_connect", client, ip, "", requestID, traceID)

	go client.writePump()

	defer func() {
		h.coordinator.Disconnect(client)
		client.Close()
		conn.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		publishLifecycleEvent(ctx, "ws_disconnect", client, ip, "", requestID, traceID)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				publishLifecycleEvent(ctx, "ws_error", client, ip, err.Error(), requestID, traceID)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			log.Printf("malformed frame from %s: %v", client.ConnID(), err)
			continue
		}
		h.dispatch(ctx, client, envelope)
	}
}

func (h *SocketHandler) dispatch(ctx context.Context, client *Client, envelope Envelope) {
	observability.IncWSEvent(envelope.Event)

	switch envelope.Event {
	case EventJoinRoom:
		var req JoinRoomRequest
		if decode(envelope.Data, &req, client) {
			h.coordinator.JoinRoom(ctx, client, req)
		}
	case EventChatMessage:
		var req ChatMessageRequest
		if decode(envelope.Data, &req, client) {
			h.coordinator.SendMessage(ctx, client, req)
		}
	case EventEditMessage:
		var req EditMessageRequest
		if decode(envelope.Data, &req, client) {
			h.coordinator.EditMessage(ctx, client, req)
		}
	case EventDeleteMessage:
		var req DeleteMessageRequest
		if decode(envelope.Data, &req, client) {
			h.coordinator.DeleteMessage(ctx, client, req)
		}
	case EventGetRooms:
		var req GetRoomsRequest
		if len(envelope.Data) > 0 && !decode(envelope.Data, &req, client) {
			return
		}
		h.coordinator.GetRooms(ctx, client, req)
	default:
		log.Printf("unknown event %q from %s", envelope.Event, client.ConnID())
	}
}

func decode(data json.RawMessage, dest any, client *Client) bool {
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("malformed payload from %s: %v", client.ConnID(), err)
		return false
	}
	return true
}

// resolveIdentity reads the bearer token from header or query. A missing or
// invalid token yields a nil identity rather than an error: room actions
// then degrade to ephemeral membership.
func (h *SocketHandler) resolveIdentity(c *gin.Context) *models.Identity {
	token := c.GetHeader("Authorization")
	if len(token) > 7 && token[:7] == "Bearer " {
		token = token[7:]
	} else {
		token = c.Query("token")
	}
	if token == "" {
		return nil
	}

	identity, err := h.tokens.Resolve(token)
	if err != nil {
		return nil
	}
	return &identity
}

func publishLifecycleEvent(ctx context.Context, event string, client *Client, ip, reason, requestID, traceID string) {
	var userID int64
	if id := client.Identity(); id != nil {
		userID = id.UserID
	}

	_ = observability.PublishEvent(ctx, "ws_events.rooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       event,
				"conn_id":     client.ConnID(),
				"duration_ms": time.Since(client.connectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id": userID,
				"ip":      ip,
			},
		},
	}, observability.BuildHeaders(requestID, traceID))
}
