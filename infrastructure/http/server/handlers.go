package server

import (
	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type createRoomRequest struct {
	FriendID int64 `json:"friend_id" binding:"required,gt=0"`
}

type sendMessageRequest struct {
	Content  string  `json:"content"`
	FileURL  *string `json:"file_url"`
	FileName *string `json:"file_name"`
	FileSize *int64  `json:"file_size"`
	FileType *string `json:"file_type"`
}

func (r sendMessageRequest) file() *domain.FileMeta {
	if lo.FromPtr(r.FileURL) == "" {
		return nil
	}
	return &domain.FileMeta{
		URL:  lo.FromPtr(r.FileURL),
		Name: lo.FromPtr(r.FileName),
		Size: lo.FromPtr(r.FileSize),
		Type: lo.FromPtr(r.FileType),
	}
}

func (s *ChatServer) CreateOrGetRoom(c *gin.Context) {
	var body createRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	room, created, err := s.rooms.CreateOrGetRoom(c.Request.Context(), auth.UserFrom(c), domain.UserID(body.FriendID))
	if err != nil {
		s.fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, domain.NewRoomView(room))
}

func (s *ChatServer) ListMyRooms(c *gin.Context) {
	summaries, err := s.rooms.ListMyRooms(c.Request.Context(), auth.UserFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Ternary(summaries == nil, []domain.RoomSummary{}, summaries))
}

func (s *ChatServer) ListMessages(c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("room_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	messages, err := s.rooms.ListMessages(c.Request.Context(), auth.UserFrom(c), roomID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) domain.MessageView {
		return domain.NewMessageView(m)
	}))
}

func (s *ChatServer) SendMessage(c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("room_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	var body sendMessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errors.ErrBadRequest, err))
		return
	}
	message, err := s.rooms.SendMessage(c.Request.Context(), domain.SendMessageCommand{
		RoomID:   roomID,
		SenderID: auth.UserFrom(c),
		Content:  body.Content,
		File:     body.file(),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, domain.NewMessageView(message))
}

func (s *ChatServer) ToggleRoomPin(c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("room_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	pinned, err := s.rooms.ToggleRoomPin(c.Request.Context(), auth.UserFrom(c), roomID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_pinned": pinned})
}

func (s *ChatServer) ToggleMessagePin(c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("room_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	messageID, err := domain.ParseMessageID(c.Param("message_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	pinned, err := s.rooms.ToggleMessagePin(c.Request.Context(), auth.UserFrom(c), roomID, messageID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_pinned": pinned})
}

func (s *ChatServer) LeaveRoom(c *gin.Context) {
	roomID, err := domain.ParseRoomID(c.Param("room_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	outcome, err := s.rooms.LeaveRoom(c.Request.Context(), auth.UserFrom(c), roomID)
	if err != nil {
		s.fail(c, err)
		return
	}
	status := "left"
	if outcome == domain.LeaveDeletesRoom {
		status = "deleted"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
