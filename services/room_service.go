package services

import (
	"cmp"
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/moderation"
	"dm-lab/observability"
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type IRoomService interface {
	CreateOrGetRoom(ctx context.Context, requester, friend domain.UserID) (domain.Room, bool, error)
	GetRoom(ctx context.Context, requester domain.UserID, roomID domain.RoomID) (domain.Room, error)
	ListMyRooms(ctx context.Context, requester domain.UserID) ([]domain.RoomSummary, error)
	ListMessages(ctx context.Context, requester domain.UserID, roomID domain.RoomID) ([]domain.Message, error)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	ToggleRoomPin(ctx context.Context, requester domain.UserID, roomID domain.RoomID) (bool, error)
	ToggleMessagePin(ctx context.Context, requester domain.UserID, roomID domain.RoomID, messageID domain.MessageID) (bool, error)
	LeaveRoom(ctx context.Context, requester domain.UserID, roomID domain.RoomID) (domain.LeaveOutcome, error)
	WithdrawAccount(ctx context.Context, user domain.UserID) (WithdrawReport, error)
}

// RoomService is the room lifecycle engine. Every read-then-write sequence
// runs in one store transaction; live delivery happens after commit only.
type RoomService struct {
	log              *slog.Logger
	store            contract.Transactor
	gate             moderation.IGate
	profiles         contract.ProfileDirectory
	delivery         contract.IDelivery
	metrics          *observability.Metrics
	validate         *validator.Validate
	maxContentLength int
	now              func() time.Time
}

func NewRoomService(
	log *slog.Logger,
	store contract.Transactor,
	gate moderation.IGate,
	profiles contract.ProfileDirectory,
	delivery contract.IDelivery,
	metrics *observability.Metrics,
	maxContentLength int,
) *RoomService {
	return &RoomService{
		log:              log,
		store:            store,
		gate:             gate,
		profiles:         profiles,
		delivery:         delivery,
		metrics:          metrics,
		validate:         validator.New(),
		maxContentLength: maxContentLength,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrGetRoom returns the room of the pair, creating it when absent.
// The gate is evaluated first, so a gated pair cannot reach an existing room either.
func (s *RoomService) CreateOrGetRoom(ctx context.Context, requester, friend domain.UserID) (domain.Room, bool, error) {
	if requester == friend {
		return domain.Room{}, false, errors.ErrSelfChat
	}
	if friend <= domain.NoUser {
		return domain.Room{}, false, fmt.Errorf("%w: friend id %d", errors.ErrInvalidIdentifier, friend)
	}
	var room domain.Room
	var created bool
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		created = false
		if err := s.gate.Check(uow.Moderation(), requester, friend); err != nil {
			return err
		}
		existing, found, err := uow.Rooms().FindRoomByPair(requester, friend)
		if err != nil {
			return err
		}
		if found {
			room = existing
			return nil
		}
		room = domain.NewRoom(requester, friend, s.now())
		created = true
		return uow.Rooms().SaveRoom(room)
	})
	if err != nil {
		s.rejected(err)
		return domain.Room{}, false, err
	}
	if created {
		s.log.Info("Room created", "room_id", room.ID, "user_a", room.UserA, "user_b", room.UserB)
	}
	return room, created, nil
}

// GetRoom loads a room for one of its participants.
func (s *RoomService) GetRoom(ctx context.Context, requester domain.UserID, roomID domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := s.store.View(ctx, func(uow contract.UnitOfWork) error {
		var err error
		room, err = uow.Rooms().GetRoom(roomID)
		if err != nil {
			return err
		}
		if !room.IsParticipant(requester) {
			return errors.ErrNotParticipant
		}
		return nil
	})
	return room, err
}

// ListMyRooms returns the rooms the requester still takes part in and where
// something was said, pinned rooms first then the most recent conversation.
func (s *RoomService) ListMyRooms(ctx context.Context, requester domain.UserID) ([]domain.RoomSummary, error) {
	var summaries []domain.RoomSummary
	err := s.store.View(ctx, func(uow contract.UnitOfWork) error {
		rooms, err := uow.Rooms().ListRoomsForUser(requester)
		if err != nil {
			return err
		}
		for _, room := range rooms {
			if room.HasLeft(requester) {
				continue
			}
			last, found, err := uow.Messages().LastMessage(room.ID)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			summary, err := s.summarize(uow, room, requester)
			if err != nil {
				return err
			}
			summary.SetLastMessage(last)
			summaries = append(summaries, summary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		profile := s.profile(ctx, summaries[i].FriendID)
		summaries[i].FriendName = profile.Name
		if profile.ProfileImage != "" {
			image := profile.ProfileImage
			summaries[i].FriendProfileImage = &image
		}
	}
	slices.SortStableFunc(summaries, func(a, b domain.RoomSummary) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.LastMessageTime.UnixNano(), a.LastMessageTime.UnixNano())
	})
	return summaries, nil
}

func (s *RoomService) summarize(uow contract.UnitOfWork, room domain.Room, requester domain.UserID) (domain.RoomSummary, error) {
	friend := room.Peer(requester)
	unread, err := uow.Messages().CountUnread(room.ID, requester)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	mine, err := uow.Moderation().Relation(requester, friend)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	theirs, err := uow.Moderation().Relation(friend, requester)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	return domain.RoomSummary{
		ID:            room.ID.String(),
		UserA:         room.UserA,
		UserB:         room.UserB,
		FriendID:      friend,
		UnreadCount:   unread,
		CreatedAt:     room.CreatedAt,
		IReportedThem: mine.Flagged(),
		TheyBlockedMe: theirs.Flagged(),
		TheyLeft:      room.HasLeft(friend),
		Pinned:        room.Pinned,
	}, nil
}

// profile never fails: display data is best effort.
func (s *RoomService) profile(ctx context.Context, id domain.UserID) domain.Profile {
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		if !errors.Is(err, errors.ErrProfileNotFound) {
			s.log.Warn("Unable to load profile", "user_id", id, "error", err)
		}
		return domain.UnknownProfile(id)
	}
	return profile
}

// ListMessages returns the whole log of the room in creation order and marks
// as read everything the requester did not send.
func (s *RoomService) ListMessages(ctx context.Context, requester domain.UserID, roomID domain.RoomID) ([]domain.Message, error) {
	var messages []domain.Message
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		room, err := uow.Rooms().GetRoom(roomID)
		if err != nil {
			return err
		}
		if !room.IsParticipant(requester) {
			return errors.ErrNotParticipant
		}
		if _, err = uow.Messages().MarkReadForRecipient(roomID, requester); err != nil {
			return err
		}
		messages, err = uow.Messages().ListByRoom(roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends one message and bumps the room. The gate is re-checked
// on every call since moderation edges can appear at any time.
func (s *RoomService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(cmd.Content) > s.maxContentLength {
		return domain.Message{}, errors.ErrContentTooLong
	}
	if !cmd.HasPayload() {
		return domain.Message{}, errors.ErrEmptyContent
	}

	var room domain.Room
	var message domain.Message
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		var err error
		room, err = uow.Rooms().GetRoom(cmd.RoomID)
		if err != nil {
			return err
		}
		if err = room.CanSend(cmd.SenderID); err != nil {
			return err
		}
		if err = s.gate.Check(uow.Moderation(), room.UserA, room.UserB); err != nil {
			return err
		}
		at := room.Touch(s.now())
		message = domain.NewMessage(room.ID, cmd.SenderID, cmd.Content, cmd.File, at)
		if err = uow.Messages().AppendMessage(message); err != nil {
			return err
		}
		return uow.Rooms().SaveRoom(room)
	})
	if err != nil {
		s.rejected(err)
		return domain.Message{}, err
	}
	s.metrics.MessageAppended(message.Kind.String())
	s.delivery.Deliver(ctx, room, message)
	return message, nil
}

// ToggleRoomPin flips the pin of the room. The flag is shared by both participants.
func (s *RoomService) ToggleRoomPin(ctx context.Context, requester domain.UserID, roomID domain.RoomID) (bool, error) {
	var pinned bool
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		room, err := uow.Rooms().GetRoom(roomID)
		if err != nil {
			return err
		}
		if !room.IsParticipant(requester) {
			return errors.ErrNotParticipant
		}
		room.Pinned = !room.Pinned
		pinned = room.Pinned
		return uow.Rooms().SaveRoom(room)
	})
	return pinned, err
}

func (s *RoomService) ToggleMessagePin(ctx context.Context, requester domain.UserID, roomID domain.RoomID, messageID domain.MessageID) (bool, error) {
	var pinned bool
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		room, err := uow.Rooms().GetRoom(roomID)
		if err != nil {
			return err
		}
		if !room.IsParticipant(requester) {
			return errors.ErrNotParticipant
		}
		message, err := uow.Messages().GetMessage(messageID)
		if err != nil {
			return err
		}
		if message.RoomID != room.ID {
			return errors.ErrMessageOtherRoom
		}
		pinned, err = uow.Messages().TogglePin(messageID)
		return err
	})
	return pinned, err
}

// LeaveRoom applies the exit transition. The first leaver leaves a system
// message behind; the second one purges the room and its log.
func (s *RoomService) LeaveRoom(ctx context.Context, requester domain.UserID, roomID domain.RoomID) (domain.LeaveOutcome, error) {
	var room domain.Room
	var outcome domain.LeaveOutcome
	var notice domain.Message
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		var err error
		room, err = uow.Rooms().GetRoom(roomID)
		if err != nil {
			return err
		}
		outcome, err = room.Leave(requester, s.now())
		if err != nil {
			return err
		}
		if outcome == domain.LeaveDeletesRoom {
			return deleteRoomCascade(uow, room)
		}
		notice = domain.NewSystemMessage(room.ID, requester, domain.LeaveNotice, room.UpdatedAt)
		if err = uow.Messages().AppendMessage(notice); err != nil {
			return err
		}
		return uow.Rooms().SaveRoom(room)
	})
	if err != nil {
		return 0, err
	}

	switch outcome {
	case domain.LeaveOneSided:
		s.log.Info("Participant left room", "room_id", room.ID, "user_id", requester)
		s.metrics.MessageAppended(notice.Kind.String())
		s.delivery.Deliver(ctx, room, notice)
	case domain.LeaveDeletesRoom:
		s.log.Info("Room deleted, both participants left", "room_id", room.ID)
		s.metrics.RoomsDeleted(1)
	}
	return outcome, nil
}

// WithdrawReport counts what an account withdrawal removed.
type WithdrawReport struct {
	Rooms    int
	Messages int
	Edges    int
}

// WithdrawAccount removes every room of user with its messages, and every
// moderation edge involving user, in a single transaction.
func (s *RoomService) WithdrawAccount(ctx context.Context, user domain.UserID) (WithdrawReport, error) {
	var report WithdrawReport
	err := s.store.Update(ctx, func(uow contract.UnitOfWork) error {
		report = WithdrawReport{}
		rooms, err := uow.Rooms().ListRoomsForUser(user)
		if err != nil {
			return err
		}
		for _, room := range rooms {
			deleted, err := uow.Messages().DeleteByRoom(room.ID)
			if err != nil {
				return err
			}
			if err = uow.Rooms().DeleteRoom(room); err != nil {
				return err
			}
			report.Rooms++
			report.Messages += deleted
		}
		report.Edges, err = uow.Moderation().DeleteUserEdges(user)
		return err
	})
	if err != nil {
		return WithdrawReport{}, err
	}
	s.metrics.RoomsDeleted(report.Rooms)
	s.log.Info("Account withdrawn", "user_id", user,
		"rooms", report.Rooms, "messages", report.Messages, "edges", report.Edges)
	return report, nil
}

func deleteRoomCascade(uow contract.UnitOfWork, room domain.Room) error {
	if _, err := uow.Messages().DeleteByRoom(room.ID); err != nil {
		return err
	}
	return uow.Rooms().DeleteRoom(room)
}

func (s *RoomService) rejected(err error) {
	if errors.Is(err, errors.ErrPairGated) {
		s.metrics.GateRejected()
	}
}
