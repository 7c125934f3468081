package services

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

type IModerationService interface {
	Block(ctx context.Context, actor, target domain.UserID) error
	Unblock(ctx context.Context, actor, target domain.UserID) error
	Report(ctx context.Context, cmd ReportCommand) (domain.Report, error)
	SetReportStatus(ctx context.Context, id domain.ReportID, status domain.ReportStatus) error
	ListBlocks(ctx context.Context, actor domain.UserID) ([]domain.Block, error)
	ListReports(ctx context.Context, actor domain.UserID) ([]domain.Report, error)
}

type ReportCommand struct {
	Actor   domain.UserID `validate:"gt=0"`
	Target  domain.UserID `validate:"gt=0"`
	Reason  string        `validate:"required,max=255"`
	Content string        `validate:"max=2000"`
}

// ModerationService writes the edges the gate reads. It is an admin surface:
// the messaging flows only ever read moderation state.
type ModerationService struct {
	log      *slog.Logger
	store    contract.Transactor
	validate *validator.Validate
	now      func() time.Time
}

func NewModerationService(log *slog.Logger, store contract.Transactor) *ModerationService {
	return &ModerationService{
		log:      log,
		store:    store,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ModerationService) Block(ctx context.Context, actor, target domain.UserID) error {
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Block(domain.Block{Actor: actor, Target: target, CreatedAt: s.now()})
	})
	if err != nil {
		return err
	}
	s.log.Info("User blocked", "actor", actor, "target", target)
	return nil
}

func (s *ModerationService) Unblock(ctx context.Context, actor, target domain.UserID) error {
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Unblock(actor, target)
	})
	if err != nil {
		return err
	}
	s.log.Info("User unblocked", "actor", actor, "target", target)
	return nil
}

// Report files a pending report. Until it is resolved or dismissed the pair is gated.
func (s *ModerationService) Report(ctx context.Context, cmd ReportCommand) (domain.Report, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Report{}, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	report := domain.Report{
		ID:        domain.NewReportID(),
		Actor:     cmd.Actor,
		Target:    cmd.Target,
		Reason:    cmd.Reason,
		Content:   cmd.Content,
		Status:    domain.ReportPending,
		CreatedAt: s.now(),
	}
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().Report(report)
	})
	if err != nil {
		return domain.Report{}, err
	}
	s.log.Info("User reported", "report_id", report.ID, "actor", report.Actor, "target", report.Target)
	return report, nil
}

func (s *ModerationService) SetReportStatus(ctx context.Context, id domain.ReportID, status domain.ReportStatus) error {
	switch status {
	case domain.ReportReviewing, domain.ReportResolved, domain.ReportDismissed:
	default:
		return fmt.Errorf("%w: report status %q", errors.ErrBadRequest, status)
	}
	return s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		return uow.Moderation().SetReportStatus(id, status)
	})
}

func (s *ModerationService) ListBlocks(ctx context.Context, actor domain.UserID) ([]domain.Block, error) {
	var blocks []domain.Block
	err := s.store.View(ctx, func(uow contract.UnitOfWork) error {
		var err error
		blocks, err = uow.Moderation().ListBlocksBy(actor)
		return err
	})
	return blocks, err
}

func (s *ModerationService) ListReports(ctx context.Context, actor domain.UserID) ([]domain.Report, error) {
	var reports []domain.Report
	err := s.store.View(ctx, func(uow contract.UnitOfWork) error {
		var err error
		reports, err = uow.Moderation().ListReportsBy(actor)
		return err
	})
	return reports, err
}
