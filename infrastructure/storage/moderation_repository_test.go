package storage

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func relation(t *testing.T, store *Store, actor, target domain.UserID) domain.Relation {
	var rel domain.Relation
	require.NoError(t, store.View(context.Background(), func(uow contract.UnitOfWork) error {
		var err error
		rel, err = uow.Moderation().Relation(actor, target)
		return err
	}))
	return rel
}

func TestModerationRepository_Block_Is_Directional(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, _ := newTestStore(t, 3)

	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Block(domain.Block{Actor: 1, Target: 2, CreatedAt: time.Now().UTC()})
	}))

	req.Equal(domain.Relation{Blocked: true}, relation(t, store, 1, 2))
	req.Equal(domain.Relation{}, relation(t, store, 2, 1))

	err := store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Block(domain.Block{Actor: 1, Target: 2})
	})
	req.ErrorIs(err, errors.ErrAlreadyBlocked)

	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Unblock(1, 2)
	}))
	req.False(relation(t, store, 1, 2).Blocked)

	err = store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Unblock(1, 2)
	})
	req.ErrorIs(err, errors.ErrBlockNotFound)
}

func TestModerationRepository_Only_Pending_Reports_Gate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, _ := newTestStore(t, 3)
	report := domain.Report{
		ID:        domain.NewReportID(),
		Actor:     3,
		Target:    4,
		Reason:    "spam",
		Status:    domain.ReportPending,
		CreatedAt: time.Now().UTC(),
	}

	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Report(report)
	}))
	req.Equal(domain.Relation{PendingReport: true, AnyReport: true}, relation(t, store, 3, 4))

	// When the report is resolved it stops gating but stays visible
	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().SetReportStatus(report.ID, domain.ReportResolved)
	}))
	rel := relation(t, store, 3, 4)
	req.False(rel.Gates())
	req.True(rel.Flagged())

	// And it cannot be reopened
	err := store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().SetReportStatus(report.ID, domain.ReportPending)
	})
	req.ErrorIs(err, errors.ErrReportClosed)
}

func TestModerationRepository_Self_Edges_Are_Rejected(t *testing.T) {
	req := require.New(t)
	store, _ := newTestStore(t, 3)

	err := store.Update(context.Background(), func(uow contract.UnitOfWork) error {
		return uow.Moderation().Block(domain.Block{Actor: 5, Target: 5})
	})
	req.ErrorIs(err, errors.ErrSelfModeration)

	err = store.Update(context.Background(), func(uow contract.UnitOfWork) error {
		return uow.Moderation().Report(domain.Report{ID: domain.NewReportID(), Actor: 5, Target: 5})
	})
	req.ErrorIs(err, errors.ErrBadRequest)
}

func TestModerationRepository_DeleteUserEdges(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, _ := newTestStore(t, 3)
	report := domain.Report{ID: domain.NewReportID(), Actor: 2, Target: 1, Status: domain.ReportPending}

	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		mod := uow.Moderation()
		req.NoError(mod.Block(domain.Block{Actor: 1, Target: 2}))
		req.NoError(mod.Block(domain.Block{Actor: 3, Target: 1}))
		req.NoError(mod.Block(domain.Block{Actor: 2, Target: 3}))
		return mod.Report(report)
	}))

	req.NoError(store.Update(ctx, func(uow contract.UnitOfWork) error {
		deleted, err := uow.Moderation().DeleteUserEdges(1)
		req.Equal(3, deleted)
		return err
	}))

	req.Equal(domain.Relation{}, relation(t, store, 1, 2))
	req.Equal(domain.Relation{}, relation(t, store, 3, 1))
	req.Equal(domain.Relation{}, relation(t, store, 2, 1))
	req.True(relation(t, store, 2, 3).Blocked)
	req.NoError(store.View(ctx, func(uow contract.UnitOfWork) error {
		_, err := uow.Moderation().GetReport(report.ID)
		req.ErrorIs(err, errors.ErrReportNotFound)
		return nil
	}))
}
