//go:generate go run go.uber.org/mock/mockgen -source=collaborators.go -destination=../mocks/mock_collaborators.go -package=mocks
package contract

import (
	"context"
	"dm-lab/domain"
)

// ModerationReader answers for one direction of the moderation edges.
type ModerationReader interface {
	Relation(actor, target domain.UserID) (domain.Relation, error)
}

// ProfileDirectory resolves display data. It is never used for authorization.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, id domain.UserID) (domain.Profile, error)
}

type IProfileRepository interface {
	ProfileDirectory
	SaveProfile(ctx context.Context, profile domain.Profile) error
}

type TokenVerifier interface {
	VerifyToken(token string) (domain.UserID, error)
}
