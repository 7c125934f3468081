package domain

import (
	"dm-lab/errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Block is a directional edge: Actor blocked Target.
type Block struct {
	Actor     UserID
	Target    UserID
	CreatedAt time.Time
}

type ReportID uuid.UUID

func NewReportID() ReportID { return ReportID(uuid.New()) }

func ParseReportID(s string) (ReportID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ReportID{}, fmt.Errorf("%w: report id %q", errors.ErrInvalidIdentifier, s)
	}
	return ReportID(id), nil
}

func (id ReportID) String() string { return uuid.UUID(id).String() }

func (id ReportID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewing ReportStatus = "reviewing"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is a directional edge: Actor reported Target.
// Only pending reports gate messaging.
type Report struct {
	ID        ReportID
	Actor     UserID
	Target    UserID
	Reason    string
	Content   string
	Status    ReportStatus
	CreatedAt time.Time
}

// Relation summarises the edges from one user towards another.
type Relation struct {
	Blocked       bool
	PendingReport bool
	AnyReport     bool
}

// Gates tells whether this direction alone forbids messaging.
func (r Relation) Gates() bool {
	return r.Blocked || r.PendingReport
}

// Flagged is what the requester sees in a room summary: any block or report.
func (r Relation) Flagged() bool {
	return r.Blocked || r.AnyReport
}
