package ws

import (
	"encoding/json"
	"time"

	"github.com/BlaJam82/chat-app/internal/models"
)

// Event names consumed from clients.
const (
	EventJoinRoom      = "joinRoom"
	EventChatMessage   = "chatMessage"
	EventEditMessage   = "editMessage"
	EventDeleteMessage = "deleteMessage"
	EventGetRooms      = "getRooms"
)

// Event names emitted to clients.
const (
	EventRoomExists       = "roomExists"
	EventRoomDoesNotExist = "roomDoesNotExist"
	EventNotice           = "message"
	EventMessageEdited    = "messageEdited"
	EventMessageDeleted   = "messageDeleted"
	EventActiveRooms      = "activeRooms"
)

// Envelope frames every message on the wire, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinRoomRequest struct {
	Room     string `json:"room"`
	Sender   string `json:"sender"`
	Category string `json:"category"`
	Create   bool   `json:"create"`
}

type ChatMessageRequest struct {
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type EditMessageRequest struct {
	MessageID int64  `json:"messageId"`
	NewText   string `json:"newText"`
}

type DeleteMessageRequest struct {
	MessageID int64 `json:"messageId"`
}

type GetRoomsRequest struct {
	ShowAll bool `json:"showAll"`
}

// RoomStatusPayload signals the two user-correctable join outcomes.
type RoomStatusPayload struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

// ChatMessagePayload carries a persisted message, for history replay and
// live broadcast alike.
type ChatMessagePayload struct {
	ID        int64     `json:"_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoticePayload is a system notice attributed to Admin.
type NoticePayload struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type MessageEditedPayload struct {
	MessageID int64  `json:"messageId"`
	NewText   string `json:"newText"`
}

type MessageDeletedPayload struct {
	MessageID int64 `json:"messageId"`
}

type ActiveRoomsPayload struct {
	GroupedRooms      map[string][]string              `json:"groupedRooms"`
	VisibleCategories map[string]bool                  `json:"visibleCategories"`
	LastMessages      map[string]models.MessagePreview `json:"lastMessages"`
	ShowAll           bool                             `json:"showAll"`
}

const adminSender = "Admin"

func notice(text string) NoticePayload {
	return NoticePayload{Sender: adminSender, Text: text}
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
