package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/httpresp"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	"github.com/BruksfildServices01/branch-queue/internal/models"
	"github.com/BruksfildServices01/branch-queue/internal/timezone"
)

// BranchHandler serves the public branch directory and super admin management.
type BranchHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBranchHandler(db *gorm.DB, audit *audit.Dispatcher) *BranchHandler {
	return &BranchHandler{db: db, audit: audit}
}

type CreateBranchRequest struct {
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location" binding:"required"`
	Category     string `json:"category"`
	AdminID      *uint  `json:"admin_id"`
	OpeningTime  string `json:"opening_time"`
	ClosingTime  string `json:"closing_time"`
	SlotDuration *int   `json:"slot_duration"`
	Timezone     string `json:"timezone"`
}

type UpdateBranchRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Category *string `json:"category"`
	AdminID  *uint   `json:"admin_id"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *BranchHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Branch{})
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}

	var branches []models.Branch
	if err := q.Order("name ASC").Find(&branches).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, branches)
}

func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.find(id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, branch)
}

// ======================================================
// SUPER ADMIN
// ======================================================

func (h *BranchHandler) Create(c *gin.Context) {
	var req CreateBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	branch := models.Branch{
		Name:         strings.TrimSpace(req.Name),
		Location:     strings.TrimSpace(req.Location),
		Category:     strings.TrimSpace(req.Category),
		OpeningTime:  req.OpeningTime,
		ClosingTime:  req.ClosingTime,
		SlotDuration: req.SlotDuration,
		Timezone:     req.Timezone,
	}
	if branch.Name == "" || branch.Location == "" {
		httperr.FromError(c, httperr.ErrValidation("missing_fields"))
		return
	}
	if branch.Category == "" {
		branch.Category = "General"
	}
	if err := normalizeHours(&branch); err != nil {
		httperr.FromError(c, err)
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.AdminID != nil {
			if err := promoteAdmin(tx, *req.AdminID); err != nil {
				return err
			}
			branch.AdminID = req.AdminID
		}
		return tx.Create(&branch).Error
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.record(c, "branch_created", &branch)
	httpresp.Created(c, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	branch, err := h.find(id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		branch.Name = strings.TrimSpace(*req.Name)
		updates["name"] = branch.Name
	}
	if req.Location != nil && strings.TrimSpace(*req.Location) != "" {
		branch.Location = strings.TrimSpace(*req.Location)
		updates["location"] = branch.Location
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		branch.Category = strings.TrimSpace(*req.Category)
		updates["category"] = branch.Category
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.AdminID != nil {
			if err := promoteAdmin(tx, *req.AdminID); err != nil {
				return err
			}
			branch.AdminID = req.AdminID
			updates["admin_id"] = *req.AdminID
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Branch{}).Where("id = ?", branch.ID).Updates(updates).Error
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.record(c, "branch_updated", branch)
	httpresp.OK(c, branch)
}

// Delete removes a branch that never took a booking. Appointments are kept
// for good, so a branch with history stays.
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.find(id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var count int64
	if err := h.db.Model(&models.Appointment{}).Where("branch_id = ?", id).Count(&count).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	if count > 0 {
		httperr.FromError(c, httperr.ErrConflict("branch_has_bookings"))
		return
	}

	if err := h.db.Delete(&models.Branch{}, id).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	h.record(c, "branch_deleted", branch)
	c.Status(http.StatusNoContent)
}

// ======================================================
// HELPERS
// ======================================================

func (h *BranchHandler) find(id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("branch_not_found")
		}
		return nil, err
	}
	return &branch, nil
}

func (h *BranchHandler) record(c *gin.Context, action string, b *models.Branch) {
	userID := c.GetUint(middleware.ContextUserID)
	branchID := b.ID
	h.audit.Dispatch(audit.Event{
		BranchID: &branchID,
		UserID:   &userID,
		Action:   action,
		Entity:   "branch",
		EntityID: &branchID,
		Metadata: map[string]any{"name": b.Name},
	})
}

func promoteAdmin(tx *gorm.DB, userID uint) error {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound("user_not_found")
		}
		return err
	}
	if user.Role == models.RoleUser {
		return tx.Model(&user).Update("role", models.RoleAdmin).Error
	}
	return nil
}

// normalizeHours validates the working hours of b and stores them in the
// canonical "HH:MM" form.
func normalizeHours(b *models.Branch) error {
	hours, err := domain.BranchHours(b)
	if err != nil {
		return err
	}
	if b.Timezone != "" && !timezone.IsValid(b.Timezone) {
		return httperr.ErrValidation("invalid_timezone")
	}

	b.OpeningTime = domain.FormatTimeOfDay(hours.OpeningMinutes)
	b.ClosingTime = domain.FormatTimeOfDay(hours.ClosingMinutes)
	slot := hours.SlotMinutes
	b.SlotDuration = &slot
	return nil
}
