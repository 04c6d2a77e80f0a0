package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	"github.com/BruksfildServices01/branch-queue/internal/config"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/handlers"
	infraRepo "github.com/BruksfildServices01/branch-queue/internal/infra/repository"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	"github.com/BruksfildServices01/branch-queue/internal/models"
	"github.com/BruksfildServices01/branch-queue/internal/realtime"
	ucAppointment "github.com/BruksfildServices01/branch-queue/internal/usecase/appointment"
)

// Deps carries the long lived collaborators built by main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier domain.Notifier
	Audit    *audit.Dispatcher
	// Realtime is the SockJS handler; nil leaves the endpoint unmounted.
	Realtime http.Handler
	Clock    ucAppointment.Clock
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(appointmentRepo, d.Notifier, d.Audit, d.Clock)
	updateStatusUC := ucAppointment.NewUpdateAppointmentStatus(appointmentRepo, d.Notifier, d.Audit, d.Clock)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(appointmentRepo, d.Notifier, d.Audit, d.Clock)
	queueStatusUC := ucAppointment.NewQueueStatus(appointmentRepo)
	listMineUC := ucAppointment.NewListMyAppointments(appointmentRepo)
	listBranchUC := ucAppointment.NewListBranchAppointments(appointmentRepo)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Clock)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB)
	branchHandler := handlers.NewBranchHandler(d.DB, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, appointmentRepo, d.Audit)
	publicHandler := handlers.NewPublicHandler(availabilityUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, appointmentRepo)
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		updateStatusUC,
		queueStatusUC,
		rescheduleUC,
		listMineUC,
		listBranchUC,
	)

	// ======================================================
	// REALTIME
	// ======================================================
	if d.Realtime != nil {
		r.Any(realtime.Prefix+"/*path", gin.WrapH(d.Realtime))
	}

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// PUBLIC
	// ------------------------------
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/branches", branchHandler.List)
	api.GET("/branches/:id", branchHandler.Get)
	api.GET("/branches/:id/available-slots", publicHandler.AvailableSlots)

	// ------------------------------
	// AUTHENTICATED
	// ------------------------------
	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware(d.Config), middleware.FreshRole(d.DB))

	secured.GET("/users/me", meHandler.GetMe)
	secured.PUT("/users/me", meHandler.UpdateMe)

	secured.POST("/appointments", appointmentHandler.Book)
	secured.GET("/appointments/my-appointments", appointmentHandler.MyAppointments)
	secured.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus)
	secured.GET("/appointments/:id/queue-status", appointmentHandler.QueueStatus)
	secured.PUT("/appointments/:id/reschedule", appointmentHandler.Reschedule)

	// ------------------------------
	// ADMIN
	// ------------------------------
	admins := secured.Group("")
	admins.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	admins.GET("/appointments", appointmentHandler.List)
	admins.GET("/audit-logs", auditLogsHandler.List)

	branchAdmin := secured.Group("/branches/my-branch")
	branchAdmin.Use(middleware.RequireRole(models.RoleAdmin))
	branchAdmin.GET("", workingHoursHandler.Get)
	branchAdmin.PUT("", workingHoursHandler.Update)

	// ------------------------------
	// SUPER ADMIN
	// ------------------------------
	super := secured.Group("/branches")
	super.Use(middleware.RequireRole(models.RoleSuperAdmin))
	super.POST("", branchHandler.Create)
	super.PUT("/:id", branchHandler.Update)
	super.DELETE("/:id", branchHandler.Delete)
}
