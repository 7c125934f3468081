package runtime

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"encoding/json"
	"log/slog"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("dm-lab/runtime")

// Delivery pushes a persisted message to both participants of its room.
// It is best effort: no retry, no queue; an offline participant reads the
// message from the store later.
type Delivery struct {
	hub contract.IHub
	log *slog.Logger
}

func NewDelivery(hub contract.IHub, log *slog.Logger) Delivery {
	return Delivery{hub: hub, log: log}
}

func (d Delivery) Deliver(ctx context.Context, room domain.Room, message domain.Message) {
	_, span := tracer.Start(ctx, "delivery.deliver")
	defer span.End()

	payload, err := json.Marshal(domain.NewMessageView(message))
	if err != nil {
		d.log.Error("Unable to serialize message", "message_id", message.ID, "error", err)
		return
	}
	delivered := 0
	for _, user := range lo.Uniq(room.Participants()) {
		if d.hub.Push(user, payload) {
			delivered++
			continue
		}
		d.log.Debug("Participant offline, message stored only", "user_id", user, "message_id", message.ID)
	}
	span.SetAttributes(
		attribute.String("room_id", room.ID.String()),
		attribute.Int("delivered", delivered),
	)
}
