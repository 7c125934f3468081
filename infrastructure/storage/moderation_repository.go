package storage

import (
	"dm-lab/domain"
	"dm-lab/errors"
	goerrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type moderationRepository struct {
	txn *badger.Txn
}

// Relation reads the block key even when absent so the gate check takes part
// in conflict detection against a concurrent block.
func (m moderationRepository) Relation(actor, target domain.UserID) (domain.Relation, error) {
	var relation domain.Relation
	_, err := m.txn.Get(blockKey(actor, target))
	switch {
	case err == nil:
		relation.Blocked = true
	case !goerrors.Is(err, badger.ErrKeyNotFound):
		return domain.Relation{}, fmt.Errorf("reading block %d->%d: %w", actor, target, err)
	}

	err = scanPrefix(m.txn, reportPairPrefix(actor, target), true, func(_, value []byte) error {
		report, err := decodeReport(value)
		if err != nil {
			return err
		}
		relation.AnyReport = true
		if report.Status == domain.ReportPending {
			relation.PendingReport = true
		}
		return nil
	})
	if err != nil {
		return domain.Relation{}, fmt.Errorf("reading reports %d->%d: %w", actor, target, err)
	}
	return relation, nil
}

func (m moderationRepository) Block(block domain.Block) error {
	if block.Actor == block.Target {
		return errors.ErrSelfModeration
	}
	key := blockKey(block.Actor, block.Target)
	_, err := m.txn.Get(key)
	if err == nil {
		return errors.ErrAlreadyBlocked
	}
	if !goerrors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("reading block: %w", err)
	}
	return m.txn.Set(key, encodeBlock(block))
}

func (m moderationRepository) Unblock(actor, target domain.UserID) error {
	key := blockKey(actor, target)
	_, err := m.txn.Get(key)
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrBlockNotFound
	}
	if err != nil {
		return fmt.Errorf("reading block: %w", err)
	}
	return m.txn.Delete(key)
}

func (m moderationRepository) Report(report domain.Report) error {
	if report.Actor == report.Target {
		return errors.ErrSelfModeration
	}
	key := reportKey(report)
	if err := m.txn.Set(key, encodeReport(report)); err != nil {
		return fmt.Errorf("saving report %s: %w", report.ID, err)
	}
	return m.txn.Set(reportIndexKey(report.ID), key)
}

func (m moderationRepository) locateReport(id domain.ReportID) ([]byte, error) {
	item, err := m.txn.Get(reportIndexKey(id))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading report index %s: %w", id, err)
	}
	return item.ValueCopy(nil)
}

func (m moderationRepository) GetReport(id domain.ReportID) (domain.Report, error) {
	key, err := m.locateReport(id)
	if err != nil {
		return domain.Report{}, err
	}
	item, err := m.txn.Get(key)
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Report{}, errors.ErrReportNotFound
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("reading report %s: %w", id, err)
	}
	var report domain.Report
	err = item.Value(func(value []byte) error {
		report, err = decodeReport(value)
		return err
	})
	return report, err
}

// SetReportStatus moves a report forward. Resolved and dismissed reports are final.
func (m moderationRepository) SetReportStatus(id domain.ReportID, status domain.ReportStatus) error {
	report, err := m.GetReport(id)
	if err != nil {
		return err
	}
	if report.Status == domain.ReportResolved || report.Status == domain.ReportDismissed {
		return errors.ErrReportClosed
	}
	report.Status = status
	return m.txn.Set(reportKey(report), encodeReport(report))
}

func (m moderationRepository) ListBlocksBy(actor domain.UserID) ([]domain.Block, error) {
	var blocks []domain.Block
	err := scanPrefix(m.txn, blocksByPrefix(actor), true, func(_, value []byte) error {
		block, err := decodeBlock(value)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
		return nil
	})
	return blocks, err
}

func (m moderationRepository) ListReportsBy(actor domain.UserID) ([]domain.Report, error) {
	var reports []domain.Report
	err := scanPrefix(m.txn, reportsByPrefix(actor), true, func(_, value []byte) error {
		report, err := decodeReport(value)
		if err != nil {
			return err
		}
		reports = append(reports, report)
		return nil
	})
	return reports, err
}

// DeleteUserEdges removes every block and report where user is actor or target.
func (m moderationRepository) DeleteUserEdges(user domain.UserID) (int, error) {
	var doomed [][]byte
	edges := 0
	collect := func(prefix string) func(key, value []byte) error {
		return func(key, value []byte) error {
			actor, target, err := edgeUsers(key, prefix)
			if err != nil {
				return err
			}
			if actor != user && target != user {
				return nil
			}
			edges++
			doomed = append(doomed, append([]byte{}, key...))
			if prefix == reportPrefix {
				report, err := decodeReport(value)
				if err != nil {
					return err
				}
				doomed = append(doomed, reportIndexKey(report.ID))
			}
			return nil
		}
	}
	if err := scanPrefix(m.txn, []byte(blockPrefix), false, collect(blockPrefix)); err != nil {
		return 0, fmt.Errorf("scanning blocks: %w", err)
	}
	if err := scanPrefix(m.txn, []byte(reportPrefix), true, collect(reportPrefix)); err != nil {
		return 0, fmt.Errorf("scanning reports: %w", err)
	}
	for _, key := range doomed {
		if err := m.txn.Delete(key); err != nil {
			return 0, fmt.Errorf("deleting edge: %w", err)
		}
	}
	return edges, nil
}
