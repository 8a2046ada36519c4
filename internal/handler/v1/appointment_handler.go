package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/internal/service"
)

type AppointmentHandler struct {
	bookingSvc      *service.BookingService
	availabilitySvc *service.AvailabilityService
}

func NewAppointmentHandler(bookingSvc *service.BookingService, availabilitySvc *service.AvailabilityService) *AppointmentHandler {
	return &AppointmentHandler{bookingSvc: bookingSvc, availabilitySvc: availabilitySvc}
}

// GET /api/v1/appointments/available-slots?doctorId=...&date=YYYY-MM-DD
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctorId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "doctorId must be a valid UUID")
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	slots, err := h.availabilitySvc.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	count := len(slots)
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: slots, Count: &count})
}

type bookingRequest struct {
	DoctorID      string `json:"doctorId" binding:"required"`
	ServiceID     string `json:"serviceId" binding:"required"`
	PatientName   string `json:"patientName" binding:"required"`
	PatientEmail  string `json:"patientEmail" binding:"required,email"`
	PatientPhone  string `json:"patientPhone" binding:"required"`
	PatientAge    *int   `json:"patientAge"`
	PatientGender string `json:"patientGender"`
	Date          string `json:"appointmentDate" binding:"required"`
	Time          string `json:"appointmentTime" binding:"required"`
	Notes         string `json:"notes"`
}

// POST /api/v1/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "doctorId must be a valid UUID")
		return
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "serviceId must be a valid UUID")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "appointmentDate must be formatted YYYY-MM-DD")
		return
	}
	slot, err := schedule.ParseTimeOfDay(req.Time)
	if err != nil {
		respondError(c, http.StatusBadRequest, "appointmentTime must be formatted HH:MM or HH:MM:SS")
		return
	}

	a, err := h.bookingSvc.Book(c.Request.Context(), &appointment.CreateAppointmentCommand{
		DoctorID:      doctorID,
		ServiceID:     serviceID,
		PatientName:   req.PatientName,
		PatientEmail:  req.PatientEmail,
		PatientPhone:  req.PatientPhone,
		PatientAge:    req.PatientAge,
		PatientGender: req.PatientGender,
		Date:          date,
		Time:          slot,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, "appointment request received", a)
}

// GET /api/v1/appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "pageSize", 20),
	}

	if raw := c.Query("doctorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "doctorId must be a valid UUID")
			return
		}
		q.DoctorID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		if !status.IsValid() {
			respondError(c, http.StatusBadRequest, "status must be one of pending, confirmed, completed, cancelled")
			return
		}
		q.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "from must be formatted YYYY-MM-DD")
			return
		}
		q.DateFrom = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "to must be formatted YYYY-MM-DD")
			return
		}
		q.DateTo = &to
	}

	page, err := h.bookingSvc.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondList(c, page.Appointments, len(page.Appointments), page.TotalCount)
}

// GET /api/v1/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/v1/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.bookingSvc.UpdateStatus(c.Request.Context(), id, appointment.Status(req.Status), callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type rescheduleRequest struct {
	Date string `json:"appointmentDate" binding:"required"`
	Time string `json:"appointmentTime" binding:"required"`
}

// PUT /api/v1/appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "appointmentDate must be formatted YYYY-MM-DD")
		return
	}
	slot, err := schedule.ParseTimeOfDay(req.Time)
	if err != nil {
		respondError(c, http.StatusBadRequest, "appointmentTime must be formatted HH:MM or HH:MM:SS")
		return
	}

	a, err := h.bookingSvc.Reschedule(c.Request.Context(), id, &appointment.RescheduleCommand{Date: date, Time: slot}, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

// DELETE /api/v1/appointments/:id
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.bookingSvc.Delete(c.Request.Context(), id, callerEntry(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "appointment deleted")
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
