package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		name string
		file *FileMeta
		want MessageKind
	}{
		{"No file metadata", nil, KindNormal},
		{"Metadata without url", &FileMeta{Name: "cat.png"}, KindNormal},
		{"Declared image mime", &FileMeta{URL: "https://cdn/x", Type: "image/heic"}, KindImage},
		{"Declared mime containing token", &FileMeta{URL: "https://cdn/x", Type: "application/x-PNG"}, KindImage},
		{"Declared non image mime wins over name", &FileMeta{URL: "https://cdn/x.png", Name: "x.png", Type: "application/pdf"}, KindFile},
		{"Name suffix, case insensitive", &FileMeta{URL: "https://cdn/x", Name: "Holiday.JPEG"}, KindImage},
		{"Name without image suffix wins over url", &FileMeta{URL: "https://cdn/x.gif", Name: "report.pdf"}, KindFile},
		{"Url suffix as last resort", &FileMeta{URL: "https://cdn/a/b.webp"}, KindImage},
		{"Url without image suffix", &FileMeta{URL: "https://cdn/a/b.zip"}, KindFile},
		{"Token in the middle of a name is not a suffix", &FileMeta{URL: "https://cdn/x", Name: "png-notes.txt"}, KindFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got := InferKind(tt.file)
			req.Equal(tt.want, got)
			// Same input, same answer
			req.Equal(got, InferKind(tt.file))
		})
	}
}

func TestNewMessage_Drops_File_For_Normal_Kind(t *testing.T) {
	req := require.New(t)
	msg := NewMessage(NewRoomID(), 1, "hi", &FileMeta{Name: "orphan.png"}, time.Now())

	req.Equal(KindNormal, msg.Kind)
	req.Nil(msg.File)
	req.False(msg.Read)
	req.False(msg.Pinned)
}

func TestMessage_UnreadBy(t *testing.T) {
	req := require.New(t)
	msg := NewMessage(NewRoomID(), 1, "hi", nil, time.Now())

	req.False(msg.UnreadBy(1))
	req.True(msg.UnreadBy(2))

	msg.Read = true
	req.False(msg.UnreadBy(2))
}

func TestMessageView_Serializes_Kind_As_Text(t *testing.T) {
	req := require.New(t)
	msg := NewMessage(NewRoomID(), 1, "", &FileMeta{URL: "https://cdn/a.png", Size: 42}, time.Now())

	b, err := json.Marshal(NewMessageView(msg))
	req.NoError(err)

	var decoded map[string]any
	req.NoError(json.Unmarshal(b, &decoded))
	req.Equal("image", decoded["message_type"])
	req.Equal("https://cdn/a.png", decoded["file_url"])
	req.EqualValues(42, decoded["file_size"])
	req.NotContains(decoded, "file_name")
}

func TestParseMessageKind(t *testing.T) {
	req := require.New(t)
	for _, kind := range []MessageKind{KindNormal, KindSystem, KindFile, KindImage} {
		parsed, err := ParseMessageKind(kind.String())
		req.NoError(err)
		req.Equal(kind, parsed)
	}
	_, err := ParseMessageKind("sticker")
	req.Error(err)
}
