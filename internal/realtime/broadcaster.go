package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/dto"
)

// Broadcaster is the notification sink that pushes events to realtime clients.
type Broadcaster struct {
	pub Publisher
}

func NewBroadcaster(pub Publisher) *Broadcaster {
	return &Broadcaster{pub: pub}
}

func (b *Broadcaster) Name() string { return "realtime" }

func (b *Broadcaster) Deliver(ctx context.Context, name domain.EventName, ev domain.Event) error {
	payload, err := json.Marshal(dto.ToEvent(uuid.NewString(), name, ev))
	if err != nil {
		return err
	}

	scope := Subscription{
		BranchID:    ev.Scope.BranchID,
		Date:        ev.Scope.Date,
		ServiceType: ev.Scope.ServiceType,
	}
	return b.pub.Publish(ctx, scope, payload)
}
