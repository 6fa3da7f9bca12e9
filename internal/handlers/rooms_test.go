package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BlaJam82/chat-app/internal/mocks"
	"github.com/BlaJam82/chat-app/internal/models"
	"github.com/BlaJam82/chat-app/internal/repositories"
	"github.com/BlaJam82/chat-app/internal/ws"
)

func setupRoomsRouter(rooms *mocks.RoomRepositoryMock, messages *mocks.MessageRepositoryMock, users *mocks.UserRepositoryMock, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	coordinator := ws.NewCoordinator(ws.NewHub(), rooms, messages, users, nil, nil)
	handler := NewRoomsHandler(coordinator)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("displayName", "Alice")
		c.Next()
	})
	router.GET("/rooms", handler.List)
	return router
}

func TestListRoomsEndpoint(t *testing.T) {
	rooms := new(mocks.RoomRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := setupRoomsRouter(rooms, messages, users, 7)

	users.On("EnrolledRooms", mock.Anything, int64(7)).Return(map[string]bool{"blues": true}, nil).Once()
	rooms.On("ListRoomsByNames", mock.Anything, []string{"blues"}).Return([]models.Room{{Name: "blues", Category: "music"}}, nil).Once()
	messages.On("LastMessage", mock.Anything, "blues").Return(models.Message{Room: "blues", Sender: "Bob", Text: "bb king"}, nil).Once()
	users.On("VisibleCategories", mock.Anything, int64(7)).Return(map[string]bool{"music": true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GroupedRooms      map[string][]string               `json:"groupedRooms"`
		Categories        []string                          `json:"categories"`
		VisibleCategories map[string]bool                   `json:"visibleCategories"`
		LastMessages      map[string]map[string]interface{} `json:"lastMessages"`
		ShowAll           bool                              `json:"showAll"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"blues"}, resp.GroupedRooms["music"])
	assert.Equal(t, []string{"music"}, resp.Categories)
	assert.True(t, resp.VisibleCategories["music"])
	assert.Equal(t, "bb king", resp.LastMessages["blues"]["text"])
	assert.False(t, resp.ShowAll)
	rooms.AssertExpectations(t)
	users.AssertExpectations(t)
	messages.AssertExpectations(t)
}

func TestListRoomsEndpointShowAll(t *testing.T) {
	rooms := new(mocks.RoomRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	router := setupRoomsRouter(rooms, messages, users, 7)

	users.On("EnrolledRooms", mock.Anything, int64(7)).Return(map[string]bool{}, nil).Once()
	rooms.On("ListRooms", mock.Anything).Return([]models.Room{{Name: "gossip", Category: "general"}}, nil).Once()
	messages.On("LastMessage", mock.Anything, "gossip").Return(models.Message{}, repositories.ErrMessageNotFound).Once()
	users.On("VisibleCategories", mock.Anything, int64(7)).Return(map[string]bool{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms?showAll=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GroupedRooms map[string][]string `json:"groupedRooms"`
		ShowAll      bool                `json:"showAll"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"gossip"}, resp.GroupedRooms["general"])
	assert.True(t, resp.ShowAll)
	rooms.AssertExpectations(t)
}
