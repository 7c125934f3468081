package storage

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewProfileRepository(SetupTestDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))

	_, err := repo.GetProfile(ctx, 9)
	req.ErrorIs(err, errors.ErrProfileNotFound)

	profile := domain.Profile{ID: 9, Name: "Mina", ProfileImage: "https://cdn/mina.png"}
	req.NoError(repo.SaveProfile(ctx, profile))

	found, err := repo.GetProfile(ctx, 9)
	req.NoError(err)
	req.Equal(profile, found)
}
