// Package domain contains core concepts of the direct messaging system.
// This file defines Messages and the rules deciding their kind.
// Messages are immutable apart from the read and pinned flags.
package domain

import (
	"dm-lab/errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MessageID uuid.UUID

func NewMessageID() MessageID {
	return MessageID(uuid.Must(uuid.NewV7()))
}

func ParseMessageID(s string) (MessageID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return MessageID{}, fmt.Errorf("%w: message id %q", errors.ErrInvalidIdentifier, s)
	}
	return MessageID(id), nil
}

func (id MessageID) String() string { return uuid.UUID(id).String() }

func (id MessageID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

type MessageKind int

const (
	KindNormal MessageKind = iota
	KindSystem
	KindFile
	KindImage
)

var kindNames = map[MessageKind]string{
	KindNormal: "normal",
	KindSystem: "system",
	KindFile:   "file",
	KindImage:  "image",
}

func (k MessageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MessageKind(%d)", int(k))
}

func ParseMessageKind(s string) (MessageKind, error) {
	for kind, name := range kindNames {
		if name == s {
			return kind, nil
		}
	}
	return KindNormal, fmt.Errorf("%w: message kind %q", errors.ErrBadRequest, s)
}

func (k MessageKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MessageKind) UnmarshalText(b []byte) error {
	kind, err := ParseMessageKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// FileMeta describes an already uploaded file attached to a message.
type FileMeta struct {
	URL  string `json:"file_url" validate:"required,max=2048"`
	Name string `json:"file_name,omitempty" validate:"max=255"`
	Size int64  `json:"file_size,omitempty" validate:"gte=0"`
	Type string `json:"file_type,omitempty" validate:"max=255"`
}

type Message struct {
	ID        MessageID
	RoomID    RoomID
	SenderID  UserID
	Content   string
	Kind      MessageKind
	Read      bool
	Pinned    bool
	File      *FileMeta
	CreatedAt time.Time
}

// NewMessage builds a user message. Its kind is decided here once and never re-derived.
func NewMessage(room RoomID, sender UserID, content string, file *FileMeta, at time.Time) Message {
	kind := InferKind(file)
	if kind == KindNormal {
		file = nil
	}
	return Message{
		ID:        NewMessageID(),
		RoomID:    room,
		SenderID:  sender,
		Content:   content,
		Kind:      kind,
		File:      file,
		CreatedAt: at,
	}
}

func NewSystemMessage(room RoomID, actor UserID, content string, at time.Time) Message {
	return Message{
		ID:        NewMessageID(),
		RoomID:    room,
		SenderID:  actor,
		Content:   content,
		Kind:      KindSystem,
		CreatedAt: at,
	}
}

// UnreadBy reports whether viewer still has to read m.
func (m Message) UnreadBy(viewer UserID) bool {
	return m.SenderID != viewer && !m.Read
}

var imageTokens = []string{"png", "jpg", "jpeg", "gif", "webp"}

// InferKind derives the kind of a message from its file metadata, looking at the
// declared MIME type first, then the file name, then the URL.
func InferKind(file *FileMeta) MessageKind {
	if file == nil || file.URL == "" {
		return KindNormal
	}
	if mimeType := strings.ToLower(file.Type); mimeType != "" {
		if strings.Contains(mimeType, "image") || containsAny(mimeType, imageTokens) {
			return KindImage
		}
		return KindFile
	}
	if name := strings.ToLower(file.Name); name != "" {
		return kindFromSuffix(name)
	}
	return kindFromSuffix(strings.ToLower(file.URL))
}

func kindFromSuffix(s string) MessageKind {
	for _, ext := range imageTokens {
		if strings.HasSuffix(s, "."+ext) {
			return KindImage
		}
	}
	return KindFile
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
