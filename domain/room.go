package domain

import (
	"dm-lab/errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RoomID uuid.UUID

// NewRoomID returns a time ordered identifier.
func NewRoomID() RoomID {
	return RoomID(uuid.Must(uuid.NewV7()))
}

func ParseRoomID(s string) (RoomID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoomID{}, fmt.Errorf("%w: room id %q", errors.ErrInvalidIdentifier, s)
	}
	return RoomID(id), nil
}

func (id RoomID) String() string { return uuid.UUID(id).String() }

func (id RoomID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

type RoomState int

const (
	Active RoomState = iota
	OneLeft
	Deleted
)

func (s RoomState) String() string {
	switch s {
	case Active:
		return "active"
	case OneLeft:
		return "one_left"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("RoomState(%d)", int(s))
	}
}

// Room is a two-party channel. UserA is the participant who opened it.
// A deleted room has no record at all, so a loaded Room is never Deleted.
type Room struct {
	ID        RoomID
	UserA     UserID
	UserB     UserID
	LeftBy    UserID
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewRoom(requester, friend UserID, at time.Time) Room {
	return Room{
		ID:        NewRoomID(),
		UserA:     requester,
		UserB:     friend,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (r Room) State() RoomState {
	if r.LeftBy == NoUser {
		return Active
	}
	return OneLeft
}

func (r Room) IsParticipant(u UserID) bool {
	return u != NoUser && (u == r.UserA || u == r.UserB)
}

// Peer returns the other participant, or NoUser when u is not in the room.
func (r Room) Peer(u UserID) UserID {
	switch u {
	case r.UserA:
		return r.UserB
	case r.UserB:
		return r.UserA
	default:
		return NoUser
	}
}

func (r Room) Participants() []UserID {
	return []UserID{r.UserA, r.UserB}
}

func (r Room) HasLeft(u UserID) bool {
	return r.LeftBy != NoUser && r.LeftBy == u
}

// CanSend enforces membership and the one-sided exit rule.
func (r Room) CanSend(sender UserID) error {
	if !r.IsParticipant(sender) {
		return errors.ErrNotParticipant
	}
	if r.HasLeft(sender) {
		return errors.ErrSenderLeft
	}
	return nil
}

// Touch bumps UpdatedAt and returns the timestamp a new message must carry.
// Timestamps are strictly increasing inside a room even if the wall clock is not.
func (r *Room) Touch(at time.Time) time.Time {
	if !at.After(r.UpdatedAt) {
		at = r.UpdatedAt.Add(time.Nanosecond)
	}
	r.UpdatedAt = at
	return at
}

type LeaveOutcome int

const (
	// LeaveOneSided moved the room from Active to OneLeft.
	LeaveOneSided LeaveOutcome = iota + 1
	// LeaveDeletesRoom means both participants are gone and the room must be purged.
	LeaveDeletesRoom
)

// Leave applies the exit transition for actor. It only mutates the room for a
// one-sided exit; deletion is left to the caller.
func (r *Room) Leave(actor UserID, at time.Time) (LeaveOutcome, error) {
	if !r.IsParticipant(actor) {
		return 0, errors.ErrNotParticipant
	}
	switch r.LeftBy {
	case NoUser:
		r.LeftBy = actor
		r.Touch(at)
		return LeaveOneSided, nil
	case actor:
		return 0, errors.ErrAlreadyLeft
	default:
		return LeaveDeletesRoom, nil
	}
}

// OrderedPair returns the pair with the lowest id first. Rooms are indexed by it.
func OrderedPair(a, b UserID) (UserID, UserID) {
	if a > b {
		return b, a
	}
	return a, b
}
