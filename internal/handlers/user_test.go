package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BlaJam82/chat-app/internal/mocks"
)

func setupUserRouter(users *mocks.UserRepositoryMock, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(users)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	router.POST("/user/room/toggle", handler.ToggleRoom)
	router.POST("/user/category/toggle", handler.ToggleCategory)
	return router
}

func TestToggleRoomNormalizesName(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupUserRouter(users, 7)

	users.On("ToggleEnrollment", mock.Anything, int64(7), "music").Return(true, nil).Once()

	w := postJSON(router, "/user/room/toggle", gin.H{"roomName": "  MuSiC "})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool `json:"success"`
		Enrolled bool `json:"enrolled"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Enrolled)
	users.AssertExpectations(t)
}

func TestToggleRoomReportsDisabledState(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupUserRouter(users, 7)

	users.On("ToggleEnrollment", mock.Anything, int64(7), "music").Return(false, nil).Once()

	w := postJSON(router, "/user/room/toggle", gin.H{"roomName": "music"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Enrolled bool `json:"enrolled"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Enrolled)
}

func TestToggleRoomMissingBody(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupUserRouter(users, 7)

	w := postJSON(router, "/user/room/toggle", gin.H{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "ToggleEnrollment", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleCategory(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupUserRouter(users, 7)

	users.On("ToggleCategoryVisible", mock.Anything, int64(7), "sports").Return(false, nil).Once()

	w := postJSON(router, "/user/category/toggle", gin.H{"categoryName": " Sports "})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Visible bool `json:"visible"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Visible)
	users.AssertExpectations(t)
}
