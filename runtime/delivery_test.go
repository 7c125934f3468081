package runtime

import (
	"context"
	"dm-lab/domain"
	"dm-lab/mocks"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDelivery_Pushes_Same_Frame_To_Both_Participants(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	hub := mocks.NewMockIHub(ctrl)
	delivery := NewDelivery(hub, logs.GetLoggerFromLevel(slog.LevelDebug))
	room := domain.NewRoom(1, 2, time.Now().UTC())
	message := domain.NewMessage(room.ID, 1, "hello", nil, time.Now().UTC())

	var frames [][]byte
	capture := func(_ domain.UserID, payload []byte) bool {
		frames = append(frames, payload)
		return true
	}
	hub.EXPECT().Push(domain.UserID(1), gomock.Any()).DoAndReturn(capture)
	// The recipient is offline: the message is stored only
	hub.EXPECT().Push(domain.UserID(2), gomock.Any()).DoAndReturn(func(u domain.UserID, p []byte) bool {
		capture(u, p)
		return false
	})

	delivery.Deliver(context.Background(), room, message)

	req.Len(frames, 2)
	req.Equal(frames[0], frames[1])
	var view domain.MessageView
	req.NoError(json.Unmarshal(frames[0], &view))
	req.Equal(message.ID.String(), view.ID)
	req.Equal("hello", view.Content)
	req.Equal(domain.KindNormal, view.Kind)
}
