package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateMeRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	out := gin.H{"user": userJSON(user)}
	if user.Role == models.RoleAdmin {
		var branch models.Branch
		if err := h.db.Where("admin_id = ?", user.ID).Order("id ASC").First(&branch).Error; err == nil {
			out["branch"] = branch
		}
	}

	c.JSON(http.StatusOK, out)
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.FromError(c, httperr.ErrValidation("missing_fields"))
			return
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			httperr.FromError(c, err)
			return
		}
		if v, ok := updates["name"].(string); ok {
			user.Name = v
		}
		if v, ok := updates["phone"].(string); ok {
			user.Phone = v
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (h *MeHandler) load(c *gin.Context) (*models.User, bool) {
	userID := c.GetUint(middleware.ContextUserID)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.FromError(c, httperr.ErrNotFound("user_not_found"))
			return nil, false
		}
		httperr.FromError(c, err)
		return nil, false
	}
	return &user, true
}
