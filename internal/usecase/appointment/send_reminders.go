package appointment

import (
	"context"

	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/timezone"
)

// SendReminders reminds every pending appointment of the next day that has
// not been reminded yet. An appointment is marked only once its reminder was
// delivered, so failures are retried by the next sweep.
type SendReminders struct {
	repo    domain.Repository
	courier domain.Courier
	clock   Clock
}

func NewSendReminders(repo domain.Repository, courier domain.Courier, clock Clock) *SendReminders {
	return &SendReminders{
		repo:    repo,
		courier: courier,
		clock:   clock,
	}
}

func (uc *SendReminders) Execute(ctx context.Context) (int, error) {
	now := uc.clock.in(timezone.Default())
	tomorrow := timezone.Date(now.AddDate(0, 0, 1))

	notSent := false
	due, err := uc.repo.FindAppointments(ctx, domain.Filter{
		Date:         tomorrow,
		Statuses:     []ticket.Status{ticket.StatusPending},
		ReminderSent: &notSent,
		Preload:      true,
	}, domain.OrderDateDescSlotAsc, 0)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		ap := &due[i]
		if err := uc.courier.Deliver(ctx, domain.EventAppointmentReminder, domain.NewEvent(ap, now)); err != nil {
			log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("reminder not delivered")
			continue
		}

		if err := uc.repo.MarkReminderSent(ctx, ap.ID); err != nil {
			log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("mark reminder sent failed")
			continue
		}
		sent++
	}

	return sent, nil
}
