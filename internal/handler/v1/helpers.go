package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/internal/service"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Total   *int64 `json:"total,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message})
}

func respondList(c *gin.Context, data any, count int, total int64) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Count: &count, Total: &total})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Message: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		respondError(c, http.StatusBadRequest, validErr.Error())
		return
	}

	switch {
	case errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, doctor.ErrServiceNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, schedule.ErrOffDayNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, appointment.ErrSlotTaken),
		errors.Is(err, schedule.ErrOffDayExists):
		respondError(c, http.StatusConflict, err.Error())

	case errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, schedule.ErrClinicClosed),
		errors.Is(err, schedule.ErrInvalidWeekday),
		errors.Is(err, schedule.ErrInvalidWindow),
		errors.Is(err, schedule.ErrInvalidTimeOfDay),
		errors.Is(err, schedule.ErrDuplicateWeekday),
		errors.Is(err, doctor.ErrInvalidDuration),
		errors.Is(err, doctor.ErrServiceMismatch):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, service.ErrAccountInactive):
		respondError(c, http.StatusForbidden, "account is inactive")

	case errors.Is(err, service.ErrAccountLocked):
		respondError(c, http.StatusTooManyRequests, "account temporarily locked")

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+param+": must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parseDate accepts the wire format "YYYY-MM-DD" and anchors it in UTC.
func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}

// callerEntry seeds an audit entry with the authenticated staff identity.
func callerEntry(c *gin.Context) service.AuditEntry {
	entry := service.AuditEntry{IPAddress: c.ClientIP()}
	if claims := currentClaims(c); claims != nil {
		entry.UserID = claims.UserID
		entry.UserRole = string(claims.Role)
	}
	return entry
}
