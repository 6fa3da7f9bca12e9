package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BlaJam82/chat-app/internal/models"
	"github.com/BlaJam82/chat-app/internal/repositories"
)

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) GetRoomByName(ctx context.Context, name string) (models.Room, error) {
	args := m.Called(ctx, name)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) CreateRoom(ctx context.Context, name, category string, createdBy *int64) (models.Room, error) {
	args := m.Called(ctx, name, category, createdBy)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepositoryMock) ListRoomsByNames(ctx context.Context, names []string) ([]models.Room, error) {
	args := m.Called(ctx, names)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, room, sender, senderConnID, text string) (models.Message, error) {
	args := m.Called(ctx, room, sender, senderConnID, text)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int64) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateMessageText(ctx context.Context, messageID int64, newText string) error {
	args := m.Called(ctx, messageID, newText)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, messageID int64) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) RecentMessages(ctx context.Context, room string, limit int) ([]models.Message, error) {
	args := m.Called(ctx, room, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) LastMessage(ctx context.Context, room string) (models.Message, error) {
	args := m.Called(ctx, room)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, firstName, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, firstName, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int64) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) EnrolledRooms(ctx context.Context, userID int64) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	var result map[string]bool
	if val := args.Get(0); val != nil {
		result = val.(map[string]bool)
	}
	return result, args.Error(1)
}

func (m *UserRepositoryMock) VisibleCategories(ctx context.Context, userID int64) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	var result map[string]bool
	if val := args.Get(0); val != nil {
		result = val.(map[string]bool)
	}
	return result, args.Error(1)
}

func (m *UserRepositoryMock) SetEnrollment(ctx context.Context, userID int64, room string, enrolled bool) error {
	args := m.Called(ctx, userID, room, enrolled)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetCategoryVisible(ctx context.Context, userID int64, category string, visible bool) error {
	args := m.Called(ctx, userID, category, visible)
	return args.Error(0)
}

func (m *UserRepositoryMock) ToggleEnrollment(ctx context.Context, userID int64, room string) (bool, error) {
	args := m.Called(ctx, userID, room)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) ToggleCategoryVisible(ctx context.Context, userID int64, category string) (bool, error) {
	args := m.Called(ctx, userID, category)
	return args.Bool(0), args.Error(1)
}

var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
