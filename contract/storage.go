package contract

import (
	"context"
	"dm-lab/domain"
)

// RoomRepository gives access to rooms inside a single store transaction.
type RoomRepository interface {
	GetRoom(id domain.RoomID) (domain.Room, error)
	// FindRoomByPair looks a room up by its participants, in any order.
	FindRoomByPair(a, b domain.UserID) (domain.Room, bool, error)
	SaveRoom(room domain.Room) error
	DeleteRoom(room domain.Room) error
	ListRoomsForUser(user domain.UserID) ([]domain.Room, error)
}

// MessageRepository is the per-room append-only log.
// Only the read and pinned flags of a stored message may change.
type MessageRepository interface {
	AppendMessage(message domain.Message) error
	GetMessage(id domain.MessageID) (domain.Message, error)
	ListByRoom(room domain.RoomID) ([]domain.Message, error)
	LastMessage(room domain.RoomID) (domain.Message, bool, error)
	CountUnread(room domain.RoomID, viewer domain.UserID) (int, error)
	MarkReadForRecipient(room domain.RoomID, viewer domain.UserID) (int, error)
	TogglePin(id domain.MessageID) (bool, error)
	DeleteByRoom(room domain.RoomID) (int, error)
}

type ModerationRepository interface {
	ModerationReader
	Block(block domain.Block) error
	Unblock(actor, target domain.UserID) error
	Report(report domain.Report) error
	GetReport(id domain.ReportID) (domain.Report, error)
	SetReportStatus(id domain.ReportID, status domain.ReportStatus) error
	ListBlocksBy(actor domain.UserID) ([]domain.Block, error)
	ListReportsBy(actor domain.UserID) ([]domain.Report, error)
	DeleteUserEdges(user domain.UserID) (int, error)
}

// UnitOfWork exposes every repository bound to the same transaction.
type UnitOfWork interface {
	Rooms() RoomRepository
	Messages() MessageRepository
	Moderation() ModerationRepository
}

// Transactor runs fn in one transaction. Update may call fn several times
// when the transaction conflicts with a concurrent one, so fn must not keep
// side effects outside of the unit of work.
type Transactor interface {
	Update(ctx context.Context, fn func(uow UnitOfWork) error) error
	View(ctx context.Context, fn func(uow UnitOfWork) error) error
}
