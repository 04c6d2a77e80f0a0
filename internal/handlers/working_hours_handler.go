package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/httpresp"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// WorkingHoursHandler lets a branch admin read and change the hours and slot
// length of the branch they manage.
type WorkingHoursHandler struct {
	db    *gorm.DB
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, repo domain.Repository, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, repo: repo, audit: audit}
}

type WorkingHoursUpdateRequest struct {
	OpeningTime  *string `json:"opening_time"`
	ClosingTime  *string `json:"closing_time"`
	SlotDuration *int    `json:"slot_duration"`
	Timezone     *string `json:"timezone"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	branch, err := h.repo.FindBranchByAdmin(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, branch)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	branch, err := h.repo.FindBranchByAdmin(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.OpeningTime != nil {
		branch.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		branch.ClosingTime = *req.ClosingTime
	}
	if req.SlotDuration != nil {
		branch.SlotDuration = req.SlotDuration
	}
	if req.Timezone != nil {
		branch.Timezone = *req.Timezone
	}

	if err := normalizeHours(branch); err != nil {
		httperr.FromError(c, err)
		return
	}

	if err := h.db.Model(&models.Branch{}).Where("id = ?", branch.ID).Updates(map[string]any{
		"opening_time":  branch.OpeningTime,
		"closing_time":  branch.ClosingTime,
		"slot_duration": *branch.SlotDuration,
		"timezone":      branch.Timezone,
	}).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	userID := c.GetUint(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		BranchID: &branch.ID,
		UserID:   &userID,
		Action:   "working_hours_updated",
		Entity:   "branch",
		EntityID: &branch.ID,
		Metadata: map[string]any{
			"opening_time":  branch.OpeningTime,
			"closing_time":  branch.ClosingTime,
			"slot_duration": *branch.SlotDuration,
		},
	})

	httpresp.OK(c, branch)
}
