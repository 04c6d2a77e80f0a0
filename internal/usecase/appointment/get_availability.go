package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/timezone"
)

type AvailabilityOutput struct {
	BranchID    uint     `json:"branch_id"`
	Date        string   `json:"date"`
	OpeningTime string   `json:"opening_time"`
	ClosingTime string   `json:"closing_time"`
	SlotMinutes int      `json:"slot_duration"`
	Slots       []string `json:"available_slots"`
}

type GetAvailability struct {
	repo  domain.Repository
	clock Clock
}

func NewGetAvailability(repo domain.Repository, clock Clock) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	branchID uint,
	date string,
) (*AvailabilityOutput, error) {

	date = strings.TrimSpace(date)
	if date == "" {
		return nil, httperr.ErrValidation("missing_fields")
	}
	if _, err := domain.ParseDate(date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	branch, err := uc.repo.FindBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	hours, err := domain.BranchHours(branch)
	if err != nil {
		return nil, err
	}

	occupied, err := uc.repo.OccupiedSlots(ctx, branch.ID, date)
	if err != nil {
		return nil, err
	}

	now := uc.clock.in(branch.Timezone)
	slots := domain.AvailableSlots(domain.SlotQuery{
		Hours:      hours,
		Occupied:   occupied,
		IsToday:    date == timezone.Date(now),
		NowMinutes: timezone.MinuteOfDay(now),
	})

	return &AvailabilityOutput{
		BranchID:    branch.ID,
		Date:        date,
		OpeningTime: domain.FormatTimeOfDay(hours.OpeningMinutes),
		ClosingTime: domain.FormatTimeOfDay(hours.ClosingMinutes),
		SlotMinutes: hours.SlotMinutes,
		Slots:       slots,
	}, nil
}
