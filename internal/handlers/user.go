package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BlaJam82/chat-app/internal/repositories"
	"github.com/BlaJam82/chat-app/internal/ws"
)

// UserHandler manages the enrollment and category visibility toggles.
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// ToggleRoom flips the caller's enrollment flag for a room.
func (h *UserHandler) ToggleRoom(c *gin.Context) {
	var req struct {
		RoomName string `json:"roomName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("userID")
	enrolled, err := h.users.ToggleEnrollment(c.Request.Context(), userID, ws.NormalizeRoomName(req.RoomName))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not toggle room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "enrolled": enrolled})
}

// ToggleCategory flips the caller's visibility flag for a category.
func (h *UserHandler) ToggleCategory(c *gin.Context) {
	var req struct {
		CategoryName string `json:"categoryName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("userID")
	visible, err := h.users.ToggleCategoryVisible(c.Request.Context(), userID, ws.NormalizeCategory(req.CategoryName))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not toggle category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "visible": visible})
}
