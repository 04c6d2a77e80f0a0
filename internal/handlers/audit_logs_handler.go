package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/httpresp"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewAuditLogsHandler(db *gorm.DB, repo domain.Repository) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, repo: repo}
}

// List pages through audit entries. Branch admins only ever see their own
// branch; the super admin sees everything and may narrow by branch_id.
func (h *AuditLogsHandler) List(c *gin.Context) {
	actor := middleware.Actor(c)

	q := h.db.Model(&models.AuditLog{})

	switch actor.Role {
	case models.RoleSuperAdmin:
		if raw := c.Query("branch_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				httperr.BadRequest(c, "invalid_id", "Invalid identifier.")
				return
			}
			q = q.Where("branch_id = ?", id)
		}
	default:
		branch, err := h.repo.FindBranchByAdmin(c.Request.Context(), actor.UserID)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		q = q.Where("branch_id = ?", branch.ID)
	}

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if from, err := time.Parse(domain.DateLayout, c.Query("from")); err == nil {
		q = q.Where("created_at >= ?", from)
	}
	if to, err := time.Parse(domain.DateLayout, c.Query("to")); err == nil {
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
