package storage

import (
	"context"
	"dm-lab/contract"
	goerrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Store runs units of work on top of badger optimistic transactions.
// Every read done through a unit of work is tracked by badger, so two
// transactions reading then writing the same room conflict and the second
// one is replayed against the committed state.
type Store struct {
	db         *badger.DB
	log        *slog.Logger
	maxRetries int
}

func NewStore(db *badger.DB, log *slog.Logger, maxRetries int) *Store {
	return &Store{db: db, log: log, maxRetries: maxRetries}
}

func (s *Store) Update(ctx context.Context, fn func(uow contract.UnitOfWork) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			return fn(newUnitOfWork(txn))
		})
		if !goerrors.Is(err, badger.ErrConflict) {
			return err
		}
		if attempt >= s.maxRetries {
			return fmt.Errorf("transaction still conflicting after %d retries: %w", attempt, err)
		}
		s.log.Debug("Transaction conflict, replaying", "attempt", attempt+1)
	}
}

func (s *Store) View(ctx context.Context, fn func(uow contract.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(newUnitOfWork(txn))
	})
}

type unitOfWork struct {
	rooms      roomRepository
	messages   messageRepository
	moderation moderationRepository
}

func newUnitOfWork(txn *badger.Txn) unitOfWork {
	return unitOfWork{
		rooms:      roomRepository{txn: txn},
		messages:   messageRepository{txn: txn},
		moderation: moderationRepository{txn: txn},
	}
}

func (u unitOfWork) Rooms() contract.RoomRepository { return u.rooms }

func (u unitOfWork) Messages() contract.MessageRepository { return u.messages }

func (u unitOfWork) Moderation() contract.ModerationRepository { return u.moderation }

// scanPrefix calls fn for every key of prefix in ascending order.
// fn only borrows key and value for the duration of the call.
func scanPrefix(txn *badger.Txn, prefix []byte, withValues bool, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = withValues
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if !withValues {
			if err := fn(item.Key(), nil); err != nil {
				return err
			}
			continue
		}
		err := item.Value(func(value []byte) error {
			return fn(item.Key(), value)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// collectKeys returns copies of every key of prefix, safe to delete afterwards.
func collectKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := scanPrefix(txn, prefix, false, func(key, _ []byte) error {
		keys = append(keys, append([]byte{}, key...))
		return nil
	})
	return keys, err
}
