package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/BlaJam82/chat-app/internal/cache"
	"github.com/BlaJam82/chat-app/internal/models"
	"github.com/BlaJam82/chat-app/internal/repositories"
	"github.com/BlaJam82/chat-app/internal/telemetry"
)

// historyLimit bounds the history replay window on join.
const historyLimit = 25

// Coordinator orchestrates the room protocol: join/create races, membership
// fan-out, history replay, and message mutation broadcast. Storage failures
// are logged and swallowed here; the only failures surfaced to clients are
// the two named room-conflict events.
type Coordinator struct {
	hub      *Hub
	rooms    repositories.RoomRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	lastMsg  *cache.LastMessageCache
	audit    *telemetry.AuditEmitter
}

// NewCoordinator constructs a Coordinator. lastMsg and audit may be nil.
func NewCoordinator(hub *Hub, rooms repositories.RoomRepository, messages repositories.MessageRepository, users repositories.UserRepository, lastMsg *cache.LastMessageCache, audit *telemetry.AuditEmitter) *Coordinator {
	return &Coordinator{
		hub:      hub,
		rooms:    rooms,
		messages: messages,
		users:    users,
		lastMsg:  lastMsg,
		audit:    audit,
	}
}

// JoinRoom resolves a join-or-create request against the room directory,
// subscribes the connection, persists enrollment, replays history, and
// emits the join notices.
func (co *Coordinator) JoinRoom(ctx context.Context, c *Client, req JoinRoomRequest) {
	room := NormalizeRoomName(req.Room)
	category := NormalizeCategory(req.Category)
	if room == "" {
		co.hub.SendTo(c, EventRoomDoesNotExist, RoomStatusPayload{Room: room, Message: "That room does not exist."})
		return
	}

	existing, err := co.rooms.GetRoomByName(ctx, room)
	exists := err == nil
	if err != nil && !errors.Is(err, repositories.ErrRoomNotFound) {
		log.Printf("room lookup error for %q: %v", room, err)
		return
	}

	if req.Create && exists {
		co.hub.SendTo(c, EventRoomExists, RoomStatusPayload{
			Room:    room,
			Message: "Room already exists. Please choose a different name.",
		})
		return
	}
	if !req.Create && !exists {
		co.hub.SendTo(c, EventRoomDoesNotExist, RoomStatusPayload{
			Room:    room,
			Message: "That room does not exist.",
		})
		return
	}

	newlyJoined := co.hub.Join(room, c)
	c.SetDisplayName(req.Sender)

	if !exists {
		var createdBy *int64
		if id := c.Identity(); id != nil {
			createdBy = &id.UserID
		}
		if _, err := co.rooms.CreateRoom(ctx, room, category, createdBy); err != nil {
			// A concurrent creator won the race: the directory's uniqueness
			// constraint is the backstop, so the room now exists and the
			// join proceeds as if it always had.
			if !errors.Is(err, repositories.ErrRoomExists) {
				log.Printf("room create error for %q: %v", room, err)
				return
			}
		} else {
			co.audit.Emit(ctx, "INFO", fmt.Sprintf("room %q created in category %q", room, category), "", createdBy)
		}
	} else {
		category = existing.Category
	}

	identity := c.Identity()
	if identity == nil {
		// Ephemeral membership only: the connection receives live traffic
		// but gains no enrollment, history, or notices.
		return
	}

	if err := co.users.SetEnrollment(ctx, identity.UserID, room, true); err != nil {
		log.Printf("enrollment write error for user %d room %q: %v", identity.UserID, room, err)
		return
	}
	if err := co.users.SetCategoryVisible(ctx, identity.UserID, category, true); err != nil {
		log.Printf("visibility write error for user %d category %q: %v", identity.UserID, category, err)
		return
	}

	history, err := co.messages.RecentMessages(ctx, room, historyLimit)
	if err != nil {
		log.Printf("history fetch error for room %q: %v", room, err)
		return
	}
	for _, msg := range history {
		text := msg.Text
		if msg.Edited {
			text += " (edited)"
		}
		co.hub.SendTo(c, EventChatMessage, ChatMessagePayload{
			ID:        msg.ID,
			Sender:    msg.Sender,
			Text:      text,
			CreatedAt: msg.CreatedAt,
		})
	}

	if newlyJoined {
		co.hub.BroadcastOthers(room, c, EventNotice, notice(fmt.Sprintf("%s has joined the chat", req.Sender)))
	}
	co.hub.SendTo(c, EventNotice, notice(fmt.Sprintf("Welcome to the chat, %s!", req.Sender)))
}

// SendMessage appends a message to the log and fans the committed record
// out to the whole room, sender included. A failed save means no broadcast.
func (co *Coordinator) SendMessage(ctx context.Context, c *Client, req ChatMessageRequest) {
	room := NormalizeRoomName(req.Room)
	msg, err := co.messages.CreateMessage(ctx, room, req.Sender, c.ConnID(), req.Text)
	if err != nil {
		log.Printf("message save error: %v", err)
		return
	}

	co.lastMsg.Set(ctx, room, msg.Preview())

	co.hub.Broadcast(room, EventChatMessage, ChatMessagePayload{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	})
}

// EditMessage rewrites a message's text and notifies the room. Unknown ids
// and foreign messages are silent no-ops.
func (co *Coordinator) EditMessage(ctx context.Context, c *Client, req EditMessageRequest) {
	msg, err := co.messages.GetMessage(ctx, req.MessageID)
	if err != nil {
		if !errors.Is(err, repositories.ErrMessageNotFound) {
			log.Printf("message lookup error for %d: %v", req.MessageID, err)
		}
		return
	}
	if !c.mayMutate(msg) {
		log.Printf("edit rejected: connection %s does not own message %d", c.ConnID(), msg.ID)
		return
	}

	if err := co.messages.UpdateMessageText(ctx, msg.ID, req.NewText); err != nil {
		log.Printf("message edit error for %d: %v", msg.ID, err)
		return
	}

	co.lastMsg.Invalidate(ctx, msg.Room)

	co.hub.Broadcast(msg.Room, EventMessageEdited, MessageEditedPayload{
		MessageID: msg.ID,
		NewText:   req.NewText,
	})
}

// DeleteMessage physically removes a message and notifies the room. Unknown
// ids and foreign messages are silent no-ops.
func (co *Coordinator) DeleteMessage(ctx context.Context, c *Client, req DeleteMessageRequest) {
	msg, err := co.messages.GetMessage(ctx, req.MessageID)
	if err != nil {
		if !errors.Is(err, repositories.ErrMessageNotFound) {
			log.Printf("message lookup error for %d: %v", req.MessageID, err)
		}
		return
	}
	if !c.mayMutate(msg) {
		log.Printf("delete rejected: connection %s does not own message %d", c.ConnID(), msg.ID)
		return
	}

	if err := co.messages.DeleteMessage(ctx, msg.ID); err != nil {
		if !errors.Is(err, repositories.ErrMessageNotFound) {
			log.Printf("message delete error for %d: %v", msg.ID, err)
		}
		return
	}

	co.lastMsg.Invalidate(ctx, msg.Room)

	co.hub.Broadcast(msg.Room, EventMessageDeleted, MessageDeletedPayload{MessageID: msg.ID})
}

// GetRooms answers a listing request on the live channel.
func (co *Coordinator) GetRooms(ctx context.Context, c *Client, req GetRoomsRequest) {
	listing := co.ListRooms(ctx, c.Identity(), req.ShowAll)
	co.hub.SendTo(c, EventActiveRooms, ActiveRoomsPayload{
		GroupedRooms:      listing.Grouped,
		VisibleCategories: listing.Visible,
		LastMessages:      listing.LastMessages,
		ShowAll:           listing.ShowAll,
	})
}

// ListRooms is the read-only listing query shared by the live channel and
// the HTTP surface: rooms grouped by category with last-message previews
// and the caller's category visibility map. It degrades to empty structures
// for unauthenticated callers and on storage failures.
func (co *Coordinator) ListRooms(ctx context.Context, identity *models.Identity, showAll bool) models.RoomListing {
	listing := models.RoomListing{
		Grouped:      map[string][]string{},
		Visible:      map[string]bool{},
		LastMessages: map[string]models.MessagePreview{},
		ShowAll:      showAll,
	}
	if identity == nil {
		return listing
	}

	enrollment, err := co.users.EnrolledRooms(ctx, identity.UserID)
	if err != nil {
		log.Printf("enrollment fetch error for user %d: %v", identity.UserID, err)
		return listing
	}

	var rooms []models.Room
	if showAll {
		rooms, err = co.rooms.ListRooms(ctx)
	} else {
		var enrolled []string
		for room, isEnrolled := range enrollment {
			if isEnrolled {
				enrolled = append(enrolled, room)
			}
		}
		sort.Strings(enrolled)
		rooms, err = co.rooms.ListRoomsByNames(ctx, enrolled)
	}
	if err != nil {
		log.Printf("room listing error for user %d: %v", identity.UserID, err)
		return listing
	}

	for _, room := range rooms {
		listing.Grouped[room.Category] = append(listing.Grouped[room.Category], room.Name)

		if preview, ok := co.lastMsg.Get(ctx, room.Name); ok {
			listing.LastMessages[room.Name] = preview
			continue
		}
		last, err := co.messages.LastMessage(ctx, room.Name)
		if err != nil {
			if !errors.Is(err, repositories.ErrMessageNotFound) {
				log.Printf("last message fetch error for room %q: %v", room.Name, err)
			}
			continue
		}
		listing.LastMessages[room.Name] = last.Preview()
		co.lastMsg.Set(ctx, room.Name, last.Preview())
	}

	for category := range listing.Grouped {
		listing.Categories = append(listing.Categories, category)
	}
	sort.Strings(listing.Categories)

	visible, err := co.users.VisibleCategories(ctx, identity.UserID)
	if err != nil {
		log.Printf("visibility fetch error for user %d: %v", identity.UserID, err)
	} else {
		listing.Visible = visible
	}
	return listing
}

// Disconnect tears the session down: the connection leaves every broadcast
// group it joined and the remaining members are notified.
func (co *Coordinator) Disconnect(c *Client) {
	left := co.hub.RemoveClient(c)

	name := c.DisplayName()
	if name == "" {
		name = "A user"
	}
	for _, room := range left {
		co.hub.Broadcast(room, EventNotice, notice(fmt.Sprintf("%s has left the chat", name)))
	}
}

// mayMutate gates edit/delete: the requesting session must be the message's
// origin connection or carry the sender's recorded display name.
func (c *Client) mayMutate(msg models.Message) bool {
	if msg.SenderConnID != "" && msg.SenderConnID == c.ConnID() {
		return true
	}
	name := c.DisplayName()
	return name != "" && name == msg.Sender
}
