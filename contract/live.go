//go:generate go run go.uber.org/mock/mockgen -source=live.go -destination=../mocks/mock_live.go -package=mocks
package contract

import (
	"context"
	"dm-lab/domain"
)

// Connection is one live channel towards a user.
// Send never blocks; it reports false when the frame was dropped.
type Connection interface {
	Send(payload []byte) bool
	Close()
}

type IHub interface {
	Register(user domain.UserID, conn Connection)
	Unregister(user domain.UserID, conn Connection)
	Push(user domain.UserID, payload []byte) bool
}

type IDelivery interface {
	Deliver(ctx context.Context, room domain.Room, message domain.Message)
}
