package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BlaJam82/chat-app/internal/auth"
	"github.com/BlaJam82/chat-app/internal/mocks"
	"github.com/BlaJam82/chat-app/internal/models"
	"github.com/BlaJam82/chat-app/internal/repositories"
)

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", "chat-app", time.Hour)
}

func setupAuthRouter(users *mocks.UserRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(users, testTokens(), nil)
	router := gin.New()
	router.POST("/auth/signup", handler.Signup)
	router.POST("/auth/login", handler.Login)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	hashMatcher := mock.MatchedBy(func(hash string) bool {
		return auth.CheckPassword(hash, "password123")
	})
	users.On("CreateUser", mock.Anything, "Alice", "alice@example.com", hashMatcher).
		Return(models.User{ID: 1, FirstName: "Alice", Email: "alice@example.com"}, nil).Once()

	w := postJSON(router, "/auth/signup", gin.H{
		"firstName":      "Alice",
		"email":          "alice@example.com",
		"password":       "password123",
		"repeatPassword": "password123",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(1), resp.User.ID)

	identity, err := testTokens().Resolve(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, "Alice", identity.DisplayName)
	users.AssertExpectations(t)
}

func TestSignupPasswordMismatch(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	w := postJSON(router, "/auth/signup", gin.H{
		"firstName":      "Alice",
		"email":          "alice@example.com",
		"password":       "password123",
		"repeatPassword": "different123",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	users.On("CreateUser", mock.Anything, "Alice", "alice@example.com", mock.Anything).
		Return(models.User{}, repositories.ErrEmailTaken).Once()

	w := postJSON(router, "/auth/signup", gin.H{
		"firstName":      "Alice",
		"email":          "alice@example.com",
		"password":       "password123",
		"repeatPassword": "password123",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	users.AssertExpectations(t)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	w := postJSON(router, "/auth/signup", gin.H{
		"firstName":      "Alice",
		"email":          "alice@example.com",
		"password":       "short",
		"repeatPassword": "short",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, FirstName: "Alice", Email: "alice@example.com", PasswordHash: hash}, nil).Once()

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, PasswordHash: hash}, nil).Once()

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongwrong",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(users)

	users.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}
