package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BlaJam82/chat-app/internal/models"
	"github.com/BlaJam82/chat-app/internal/ws"
)

// RoomsHandler exposes the room listing query to the page-serving layer.
type RoomsHandler struct {
	coordinator *ws.Coordinator
}

// NewRoomsHandler builds a RoomsHandler.
func NewRoomsHandler(coordinator *ws.Coordinator) *RoomsHandler {
	return &RoomsHandler{coordinator: coordinator}
}

// List returns the caller's rooms grouped by category with last-message
// previews. ?showAll=true lists every room in the directory.
func (h *RoomsHandler) List(c *gin.Context) {
	showAll, _ := strconv.ParseBool(c.DefaultQuery("showAll", "false"))

	identity := &models.Identity{
		UserID:      c.GetInt64("userID"),
		DisplayName: c.GetString("displayName"),
	}

	listing := h.coordinator.ListRooms(c.Request.Context(), identity, showAll)
	c.JSON(http.StatusOK, gin.H{
		"groupedRooms":      listing.Grouped,
		"categories":        listing.Categories,
		"visibleCategories": listing.Visible,
		"lastMessages":      listing.LastMessages,
		"showAll":           listing.ShowAll,
	})
}
