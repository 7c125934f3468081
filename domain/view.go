package domain

import (
	"time"

	"github.com/samber/lo"
)

// RoomView is the wire shape of a room.
type RoomView struct {
	ID        string    `json:"id"`
	UserA     UserID    `json:"user1_id"`
	UserB     UserID    `json:"user2_id"`
	LeftBy    *UserID   `json:"left_by,omitempty"`
	Pinned    bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRoomView(r Room) RoomView {
	return RoomView{
		ID:        r.ID.String(),
		UserA:     r.UserA,
		UserB:     r.UserB,
		LeftBy:    lo.EmptyableToPtr(r.LeftBy),
		Pinned:    r.Pinned,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// MessageView is the wire shape of a message, shared by REST responses and live frames.
type MessageView struct {
	ID        string      `json:"id"`
	RoomID    string      `json:"room_id"`
	SenderID  UserID      `json:"sender_id"`
	Content   string      `json:"content"`
	Kind      MessageKind `json:"message_type"`
	Read      bool        `json:"is_read"`
	Pinned    bool        `json:"is_pinned"`
	CreatedAt time.Time   `json:"created_at"`
	FileURL   *string     `json:"file_url,omitempty"`
	FileName  *string     `json:"file_name,omitempty"`
	FileSize  *int64      `json:"file_size,omitempty"`
	FileType  *string     `json:"file_type,omitempty"`
}

func NewMessageView(m Message) MessageView {
	view := MessageView{
		ID:        m.ID.String(),
		RoomID:    m.RoomID.String(),
		SenderID:  m.SenderID,
		Content:   m.Content,
		Kind:      m.Kind,
		Read:      m.Read,
		Pinned:    m.Pinned,
		CreatedAt: m.CreatedAt,
	}
	if m.File != nil {
		view.FileURL = lo.EmptyableToPtr(m.File.URL)
		view.FileName = lo.EmptyableToPtr(m.File.Name)
		view.FileSize = lo.EmptyableToPtr(m.File.Size)
		view.FileType = lo.EmptyableToPtr(m.File.Type)
	}
	return view
}

// RoomSummary is a room as seen by one of its participants.
type RoomSummary struct {
	ID                 string       `json:"id"`
	UserA              UserID       `json:"user1_id"`
	UserB              UserID       `json:"user2_id"`
	FriendID           UserID       `json:"friend_id"`
	FriendName         string       `json:"friend_name"`
	FriendProfileImage *string      `json:"friend_profile_image,omitempty"`
	LastMessage        *string      `json:"last_message,omitempty"`
	LastMessageTime    *time.Time   `json:"last_message_time,omitempty"`
	LastMessageType    *MessageKind `json:"last_message_type,omitempty"`
	LastFileURL        *string      `json:"last_file_url,omitempty"`
	LastFileName       *string      `json:"last_file_name,omitempty"`
	UnreadCount        int          `json:"unread_count"`
	CreatedAt          time.Time    `json:"created_at"`
	IReportedThem      bool         `json:"i_reported_them"`
	TheyBlockedMe      bool         `json:"they_blocked_me"`
	TheyLeft           bool         `json:"they_left"`
	Pinned             bool         `json:"is_pinned"`
}

// SetLastMessage copies the display fields of the latest message of the room.
func (s *RoomSummary) SetLastMessage(m Message) {
	s.LastMessage = lo.ToPtr(m.Content)
	s.LastMessageTime = lo.ToPtr(m.CreatedAt)
	s.LastMessageType = lo.ToPtr(m.Kind)
	if m.File != nil {
		s.LastFileURL = lo.EmptyableToPtr(m.File.URL)
		s.LastFileName = lo.EmptyableToPtr(m.File.Name)
	}
}
