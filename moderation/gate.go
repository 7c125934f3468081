package moderation

import (
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/errors"
	"fmt"
	"log/slog"
)

type IGate interface {
	IsGated(reader contract.ModerationReader, a, b domain.UserID) (bool, error)
	Check(reader contract.ModerationReader, a, b domain.UserID) error
}

// Gate is the single predicate deciding whether two users may talk.
// It is stateless; edges are read through the reader of the caller's
// transaction so the decision and the write it protects commit together.
type Gate struct {
	log *slog.Logger
}

func NewGate(log *slog.Logger) Gate {
	return Gate{log: log}
}

// IsGated is true when a block exists in either direction, or a pending
// report in either direction.
func (g Gate) IsGated(reader contract.ModerationReader, a, b domain.UserID) (bool, error) {
	for _, pair := range [][2]domain.UserID{{a, b}, {b, a}} {
		relation, err := reader.Relation(pair[0], pair[1])
		if err != nil {
			return true, fmt.Errorf("moderation lookup %d->%d: %w", pair[0], pair[1], err)
		}
		if relation.Gates() {
			return true, nil
		}
	}
	return false, nil
}

// Check fails closed: a lookup error rejects as surely as a block does.
func (g Gate) Check(reader contract.ModerationReader, a, b domain.UserID) error {
	gated, err := g.IsGated(reader, a, b)
	if err != nil {
		g.log.Warn("Moderation lookup failed, rejecting", "user_a", a, "user_b", b, "error", err)
		return err
	}
	if gated {
		g.log.Debug("Pair gated", "user_a", a, "user_b", b)
		return errors.ErrPairGated
	}
	return nil
}
