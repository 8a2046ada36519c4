package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/physiocore/clinic-api/internal/config"
	"github.com/physiocore/clinic-api/pkg/auth"
	"github.com/physiocore/clinic-api/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	DB         *gorm.DB
	JWTManager *auth.JWTManager
	Metrics    *metrics.Collector
	Logger     *zap.Logger

	Auth        *AuthHandler
	Appointment *AppointmentHandler
	Catalog     *CatalogHandler
	Schedule    *ScheduleHandler
}

// NewRouter wires middleware and the full v1 route table. Public routes cover
// the patient-facing booking flow; everything else sits behind staff auth,
// with catalog and schedule mutation admin-only.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Logger))
	r.Use(Instrument(deps.Metrics))
	r.Use(CORS(deps.Config.CORS))
	r.Use(RateLimit(deps.Config.RateLimit))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	v1 := r.Group("/api/v1")

	// Patient-facing, no auth.
	v1.GET("/doctors", deps.Catalog.ListDoctors)
	v1.GET("/doctors/:id", deps.Catalog.GetDoctor)
	v1.GET("/doctors/:id/services", deps.Catalog.ListServices)
	v1.GET("/doctors/:id/working-hours", deps.Schedule.Week)
	v1.GET("/appointments/available-slots", deps.Appointment.AvailableSlots)
	v1.GET("/off-days", deps.Schedule.ListOffDays)
	v1.POST("/appointments", deps.Appointment.Book)

	v1.POST("/auth/login", deps.Auth.Login)
	v1.POST("/auth/refresh", deps.Auth.Refresh)

	staff := v1.Group("")
	staff.Use(Authenticate(deps.JWTManager))
	{
		staff.POST("/auth/change-password", deps.Auth.ChangePassword)

		staff.GET("/appointments", deps.Appointment.List)
		staff.GET("/appointments/:id", deps.Appointment.Get)
		staff.PUT("/appointments/:id/status", deps.Appointment.UpdateStatus)
		staff.PUT("/appointments/:id/reschedule", deps.Appointment.Reschedule)
	}

	admin := staff.Group("")
	admin.Use(RequireAdmin())
	{
		admin.DELETE("/appointments/:id", deps.Appointment.Delete)

		admin.POST("/doctors", deps.Catalog.CreateDoctor)
		admin.PUT("/doctors/:id", deps.Catalog.UpdateDoctor)
		admin.DELETE("/doctors/:id", deps.Catalog.DeleteDoctor)
		admin.POST("/doctors/:id/services", deps.Catalog.CreateService)
		admin.PUT("/services/:id", deps.Catalog.UpdateService)
		admin.DELETE("/services/:id", deps.Catalog.DeleteService)

		admin.PUT("/doctors/:id/working-hours", deps.Schedule.ReplaceWeek)
		admin.POST("/off-days", deps.Schedule.AddOffDay)
		admin.DELETE("/off-days/:id", deps.Schedule.RemoveOffDay)
	}

	return r
}
