package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/branch-queue/internal/usecase/appointment"
)

// PublicHandler serves the unauthenticated availability lookup.
type PublicHandler struct {
	availability *ucAppointment.GetAvailability
}

func NewPublicHandler(availability *ucAppointment.GetAvailability) *PublicHandler {
	return &PublicHandler{availability: availability}
}

// AvailableSlots handles GET /branches/:id/available-slots?date=YYYY-MM-DD.
func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}
