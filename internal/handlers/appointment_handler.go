package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/dto"
	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/httpresp"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/branch-queue/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book         *ucAppointment.BookAppointment
	updateStatus *ucAppointment.UpdateAppointmentStatus
	queueStatus  *ucAppointment.QueueStatus
	reschedule   *ucAppointment.RescheduleAppointment
	listMine     *ucAppointment.ListMyAppointments
	listBranch   *ucAppointment.ListBranchAppointments
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	updateStatus *ucAppointment.UpdateAppointmentStatus,
	queueStatus *ucAppointment.QueueStatus,
	reschedule *ucAppointment.RescheduleAppointment,
	listMine *ucAppointment.ListMyAppointments,
	listBranch *ucAppointment.ListBranchAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:         book,
		updateStatus: updateStatus,
		queueStatus:  queueStatus,
		reschedule:   reschedule,
		listMine:     listMine,
		listBranch:   listBranch,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	BranchID         uint   `json:"branch_id" binding:"required"`
	ServiceType      string `json:"service_type" binding:"required"`
	AppointmentDate  string `json:"appointment_date" binding:"required"`
	TimeSlot         string `json:"time_slot" binding:"required"`
	PriorityCriteria string `json:"priority_criteria"`
	Notes            string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RescheduleRequest struct {
	AppointmentDate string `json:"appointment_date" binding:"required"`
	TimeSlot        string `json:"time_slot" binding:"required"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), domain.BookingRequest{
		UserID:           c.GetUint(middleware.ContextUserID),
		BranchID:         req.BranchID,
		ServiceType:      req.ServiceType,
		Date:             req.AppointmentDate,
		TimeSlot:         req.TimeSlot,
		PriorityCriteria: req.PriorityCriteria,
		Notes:            req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message":     "Appointment booked successfully",
		"appointment": dto.ToAppointmentDTO(ap),
	})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) MyAppointments(c *gin.Context) {
	list, err := h.listMine.Execute(
		c.Request.Context(),
		c.GetUint(middleware.ContextUserID),
		listFilter(c),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.ToAppointmentDTOs(list))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.listBranch.Execute(c.Request.Context(), middleware.Actor(c), listFilter(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.ToAppointmentDTOs(list))
}

func listFilter(c *gin.Context) ucAppointment.ListFilter {
	return ucAppointment.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.updateStatus.Execute(c.Request.Context(), ucAppointment.UpdateStatusInput{
		Actor:         middleware.Actor(c),
		AppointmentID: id,
		Status:        req.Status,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	resp := gin.H{
		"message":     "Appointment status updated",
		"appointment": dto.ToAppointmentDTO(out.Appointment),
	}
	if out.Next != nil {
		resp["next"] = dto.ToQueueEntry(out.Next)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) QueueStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.queueStatus.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ToQueueStatus(out.Appointment, out.View))
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		Actor:         middleware.Actor(c),
		AppointmentID: id,
		Date:          req.AppointmentDate,
		TimeSlot:      req.TimeSlot,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Appointment rescheduled",
		"appointment": dto.ToAppointmentDTO(ap),
	})
}
