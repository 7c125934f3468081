package storage

import (
	"dm-lab/domain"
	"dm-lab/errors"
	goerrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type roomRepository struct {
	txn *badger.Txn
}

func (r roomRepository) GetRoom(id domain.RoomID) (domain.Room, error) {
	item, err := r.txn.Get(roomKey(id))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("reading room %s: %w", id, err)
	}
	var room domain.Room
	err = item.Value(func(value []byte) error {
		room, err = decodeRoom(value)
		return err
	})
	return room, err
}

// FindRoomByPair reads the pair index even when it is absent, so a concurrent
// creation for the same pair makes one of the two transactions conflict.
func (r roomRepository) FindRoomByPair(a, b domain.UserID) (domain.Room, bool, error) {
	item, err := r.txn.Get(pairKey(a, b))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, false, nil
	}
	if err != nil {
		return domain.Room{}, false, fmt.Errorf("reading pair %d/%d: %w", a, b, err)
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Room{}, false, err
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return domain.Room{}, false, fmt.Errorf("decoding pair index: %w", err)
	}
	room, err := r.GetRoom(domain.RoomID(id))
	if err != nil {
		return domain.Room{}, false, err
	}
	return room, true, nil
}

// SaveRoom writes the room and keeps its pair and member indexes in sync.
func (r roomRepository) SaveRoom(room domain.Room) error {
	id := uuid.UUID(room.ID)
	writes := []struct{ key, value []byte }{
		{roomKey(room.ID), encodeRoom(room)},
		{pairKey(room.UserA, room.UserB), id[:]},
		{memberKey(room.UserA, room.ID), nil},
		{memberKey(room.UserB, room.ID), nil},
	}
	for _, w := range writes {
		if err := r.txn.Set(w.key, w.value); err != nil {
			return fmt.Errorf("saving room %s: %w", room.ID, err)
		}
	}
	return nil
}

func (r roomRepository) DeleteRoom(room domain.Room) error {
	keys := [][]byte{
		roomKey(room.ID),
		pairKey(room.UserA, room.UserB),
		memberKey(room.UserA, room.ID),
		memberKey(room.UserB, room.ID),
	}
	for _, key := range keys {
		if err := r.txn.Delete(key); err != nil {
			return fmt.Errorf("deleting room %s: %w", room.ID, err)
		}
	}
	return nil
}

// ListRoomsForUser returns every room the user takes part in, whatever its state.
func (r roomRepository) ListRoomsForUser(user domain.UserID) ([]domain.Room, error) {
	prefix := memberPrefix(user)
	keys, err := collectKeys(r.txn, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing rooms of %d: %w", user, err)
	}
	rooms := make([]domain.Room, 0, len(keys))
	for _, key := range keys {
		id, err := domain.ParseRoomID(string(key[len(prefix):]))
		if err != nil {
			return nil, err
		}
		room, err := r.GetRoom(id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
