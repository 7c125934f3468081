package storage

import (
	"dm-lab/domain"
	"dm-lab/errors"
	goerrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type messageRepository struct {
	txn *badger.Txn
}

// AppendMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{message_id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Break ties between messages created at the same nanosecond by their id.
func (m messageRepository) AppendMessage(message domain.Message) error {
	key := messageKey(message)
	if err := m.txn.Set(key, encodeMessage(message)); err != nil {
		return fmt.Errorf("appending message %s: %w", message.ID, err)
	}
	if err := m.txn.Set(messageIndexKey(message.ID), key); err != nil {
		return fmt.Errorf("indexing message %s: %w", message.ID, err)
	}
	return nil
}

func (m messageRepository) locate(id domain.MessageID) ([]byte, error) {
	item, err := m.txn.Get(messageIndexKey(id))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading message index %s: %w", id, err)
	}
	return item.ValueCopy(nil)
}

func (m messageRepository) read(key []byte) (domain.Message, error) {
	item, err := m.txn.Get(key)
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("reading message: %w", err)
	}
	var message domain.Message
	err = item.Value(func(value []byte) error {
		message, err = decodeMessage(value)
		return err
	})
	return message, err
}

func (m messageRepository) GetMessage(id domain.MessageID) (domain.Message, error) {
	key, err := m.locate(id)
	if err != nil {
		return domain.Message{}, err
	}
	return m.read(key)
}

// ListByRoom retrieves messages of a room using a prefix scan.
// Thanks to the padded timestamp in the key, messages come sorted by creation time.
func (m messageRepository) ListByRoom(room domain.RoomID) ([]domain.Message, error) {
	var messages []domain.Message
	err := scanPrefix(m.txn, messagePrefix(room), true, func(_, value []byte) error {
		message, err := decodeMessage(value)
		if err != nil {
			return err
		}
		messages = append(messages, message)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing messages of room %s: %w", room, err)
	}
	return messages, nil
}

func (m messageRepository) LastMessage(room domain.RoomID) (domain.Message, bool, error) {
	prefix := messagePrefix(room)
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchValues = false
	it := m.txn.NewIterator(opts)
	defer it.Close()

	it.Seek(seekLast(prefix))
	if !it.ValidForPrefix(prefix) {
		return domain.Message{}, false, nil
	}
	var message domain.Message
	err := it.Item().Value(func(value []byte) error {
		var err error
		message, err = decodeMessage(value)
		return err
	})
	if err != nil {
		return domain.Message{}, false, fmt.Errorf("reading last message of room %s: %w", room, err)
	}
	return message, true, nil
}

func (m messageRepository) CountUnread(room domain.RoomID, viewer domain.UserID) (int, error) {
	count := 0
	err := scanPrefix(m.txn, messagePrefix(room), true, func(_, value []byte) error {
		message, err := decodeMessage(value)
		if err != nil {
			return err
		}
		if message.UnreadBy(viewer) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting unread messages of room %s: %w", room, err)
	}
	return count, nil
}

// MarkReadForRecipient flips the read flag of every message viewer did not send.
// It returns how many messages changed, so a second call returns 0.
func (m messageRepository) MarkReadForRecipient(room domain.RoomID, viewer domain.UserID) (int, error) {
	type pending struct {
		key     []byte
		message domain.Message
	}
	var updates []pending
	err := scanPrefix(m.txn, messagePrefix(room), true, func(key, value []byte) error {
		message, err := decodeMessage(value)
		if err != nil {
			return err
		}
		if message.UnreadBy(viewer) {
			message.Read = true
			updates = append(updates, pending{key: append([]byte{}, key...), message: message})
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning room %s: %w", room, err)
	}
	for _, u := range updates {
		if err := m.txn.Set(u.key, encodeMessage(u.message)); err != nil {
			return 0, fmt.Errorf("marking message %s read: %w", u.message.ID, err)
		}
	}
	return len(updates), nil
}

// TogglePin flips the pinned flag in place; the key, hence the order, is untouched.
func (m messageRepository) TogglePin(id domain.MessageID) (bool, error) {
	key, err := m.locate(id)
	if err != nil {
		return false, err
	}
	message, err := m.read(key)
	if err != nil {
		return false, err
	}
	message.Pinned = !message.Pinned
	if err := m.txn.Set(key, encodeMessage(message)); err != nil {
		return false, fmt.Errorf("pinning message %s: %w", id, err)
	}
	return message.Pinned, nil
}

func (m messageRepository) DeleteByRoom(room domain.RoomID) (int, error) {
	var ids []domain.MessageID
	var keys [][]byte
	err := scanPrefix(m.txn, messagePrefix(room), true, func(key, value []byte) error {
		message, err := decodeMessage(value)
		if err != nil {
			return err
		}
		ids = append(ids, message.ID)
		keys = append(keys, append([]byte{}, key...))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning room %s: %w", room, err)
	}
	for i, key := range keys {
		if err := m.txn.Delete(key); err != nil {
			return 0, fmt.Errorf("deleting message %s: %w", ids[i], err)
		}
		if err := m.txn.Delete(messageIndexKey(ids[i])); err != nil {
			return 0, fmt.Errorf("deleting message index %s: %w", ids[i], err)
		}
	}
	return len(keys), nil
}
