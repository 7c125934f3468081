package storage

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	goerrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// ProfileRepository is a local copy of the display data owned by the identity
// service. It only feeds room summaries.
type ProfileRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewProfileRepository(db *badger.DB, log *slog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, log: log}
}

func (p *ProfileRepository) GetProfile(ctx context.Context, id domain.UserID) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}
	var profile domain.Profile
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(id))
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("reading profile %d: %w", id, err)
		}
		return item.Value(func(value []byte) error {
			profile, err = decodeProfile(value)
			return err
		})
	})
	return profile, err
}

func (p *ProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.ID), encodeProfile(profile))
	})
	if err != nil {
		return fmt.Errorf("saving profile %d: %w", profile.ID, err)
	}
	p.log.Debug("Profile saved", "user_id", profile.ID)
	return nil
}
