package storage

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func appendAll(t *testing.T, store *Store, messages ...domain.Message) {
	require.NoError(t, store.Update(context.Background(), func(uow contract.UnitOfWork) error {
		for _, m := range messages {
			if err := uow.Messages().AppendMessage(m); err != nil {
				return err
			}
		}
		return nil
	}))
}

func listRoom(t *testing.T, store *Store, room domain.RoomID) []domain.Message {
	var messages []domain.Message
	require.NoError(t, store.View(context.Background(), func(uow contract.UnitOfWork) error {
		var err error
		messages, err = uow.Messages().ListByRoom(room)
		return err
	}))
	return messages
}

func TestMessageRepository_List_Is_Sorted_By_Creation(t *testing.T) {
	req := require.New(t)
	store, _ := newTestStore(t, 3)
	room := domain.NewRoomID()
	at := time.Now().UTC()

	// Given messages appended out of order, and one in another room
	third := domain.NewMessage(room, 1, "third", nil, at.Add(2*time.Minute))
	first := domain.NewMessage(room, 2, "first", nil, at)
	second := domain.NewMessage(room, 1, "", &domain.FileMeta{URL: "https://cdn/a.pdf", Name: "a.pdf", Size: 10}, at.Add(time.Minute))
	appendAll(t, store, third, first, second, domain.NewMessage(domain.NewRoomID(), 1, "elsewhere", nil, at))

	// When fetching messages
	messages := listRoom(t, store, room)

	// Then only the room messages come back, oldest first
	req.Equal([]domain.Message{first, second, third}, messages)
	req.Equal(domain.KindFile, messages[1].Kind)
	req.Equal("a.pdf", messages[1].File.Name)
}

func TestMessageRepository_MarkReadForRecipient_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, _ := newTestStore(t, 3)
	room := domain.NewRoomID()
	at := time.Now().UTC()
	appendAll(t, store,
		domain.NewMessage(room, 1, "hi", nil, at),
		domain.NewMessage(room, 2, "hello", nil, at.Add(time.Second)),
		domain.NewMessage(room, 2, "you there?", nil, at.Add(2*time.Second)),
	)

	mark := func() int {
		var changed int
		req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
			var err error
			changed, err = uow.Messages().MarkReadForRecipient(room, 1)
			return err
		}))
		return changed
	}

	req.Equal(2, mark())
	req.Equal(0, mark())

	messages := listRoom(t, store, room)
	req.Equal([]bool{false, true, true}, lo.Map(messages, func(m domain.Message, _ int) bool { return m.Read }))
	req.NoError(store.View(ctx, func(uow contract.UnitOfWork) error {
		unread, err := uow.Messages().CountUnread(room, 2)
		req.Equal(1, unread)
		return err
	}))
}

func TestMessageRepository_TogglePin_Keeps_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, _ := newTestStore(t, 3)
	room := domain.NewRoomID()
	at := time.Now().UTC()
	first := domain.NewMessage(room, 1, "first", nil, at)
	second := domain.NewMessage(room, 2, "second", nil, at.Add(time.Second))
	appendAll(t, store, first, second)

	toggle := func() bool {
		var pinned bool
		req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
			var err error
			pinned, err = uow.Messages().TogglePin(second.ID)
			return err
		}))
		return pinned
	}

	req.True(toggle())
	messages := listRoom(t, store, room)
	req.Equal([]domain.MessageID{first.ID, second.ID}, lo.Map(messages, func(m domain.Message, _ int) domain.MessageID { return m.ID }))
	req.True(messages[1].Pinned)

	req.False(toggle())
}

func TestMessageRepository_LastMessage_And_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, _ := newTestStore(t, 3)
	room := domain.NewRoomID()
	other := domain.NewRoomID()
	at := time.Now().UTC()
	last := domain.NewMessage(room, 2, "last", nil, at.Add(time.Minute))
	appendAll(t, store,
		domain.NewMessage(room, 1, "first", nil, at),
		last,
		domain.NewMessage(other, 1, "kept", nil, at.Add(time.Hour)),
	)

	req.NoError(store.View(ctx, func(uow contract.UnitOfWork) error {
		found, ok, err := uow.Messages().LastMessage(room)
		req.NoError(err)
		req.True(ok)
		req.Equal(last, found)
		return nil
	}))

	// When the room messages are deleted
	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		deleted, err := uow.Messages().DeleteByRoom(room)
		req.Equal(2, deleted)
		return err
	}))

	// Then neither the log nor the id index know them anymore
	req.Empty(listRoom(t, store, room))
	req.Len(listRoom(t, store, other), 1)
	req.NoError(store.View(ctx, func(uow contract.UnitOfWork) error {
		_, ok, err := uow.Messages().LastMessage(room)
		req.NoError(err)
		req.False(ok)
		_, err = uow.Messages().GetMessage(last.ID)
		req.ErrorIs(err, errors.ErrMessageNotFound)
		return nil
	}))
}
