package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/physiocore/clinic-api/internal/domain/schedule"
	"github.com/physiocore/clinic-api/internal/service"
)

type ScheduleHandler struct {
	scheduleSvc *service.ScheduleService
}

func NewScheduleHandler(scheduleSvc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// workingHourResponse carries the weekday as its display name. The ordinal
// never leaves the API boundary.
type workingHourResponse struct {
	Weekday     string             `json:"weekday"`
	StartTime   schedule.TimeOfDay `json:"start_time"`
	EndTime     schedule.TimeOfDay `json:"end_time"`
	IsAvailable bool               `json:"is_available"`
}

func toWorkingHourResponses(week []*schedule.WorkingHour) []workingHourResponse {
	out := make([]workingHourResponse, 0, len(week))
	for _, w := range week {
		out = append(out, workingHourResponse{
			Weekday:     schedule.WeekdayName(w.Weekday),
			StartTime:   w.StartTime,
			EndTime:     w.EndTime,
			IsAvailable: w.IsAvailable,
		})
	}
	return out
}

// GET /api/v1/doctors/:id/working-hours
func (h *ScheduleHandler) Week(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	week, err := h.scheduleSvc.Week(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toWorkingHourResponses(week))
}

type weekEntryRequest struct {
	Weekday     string `json:"weekday" binding:"required"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

type replaceWeekRequest struct {
	Entries []weekEntryRequest `json:"entries" binding:"required"`
}

// PUT /api/v1/doctors/:id/working-hours
func (h *ScheduleHandler) ReplaceWeek(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req replaceWeekRequest
	if !bindJSON(c, &req) {
		return
	}

	entries := make([]schedule.WeekEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		day, err := schedule.ParseWeekday(e.Weekday)
		if err != nil {
			respondError(c, http.StatusBadRequest, "weekday must be an English day name, got "+e.Weekday)
			return
		}

		entry := schedule.WeekEntry{Weekday: day, IsAvailable: e.IsAvailable}
		if e.IsAvailable {
			start, err := schedule.ParseTimeOfDay(e.StartTime)
			if err != nil {
				respondError(c, http.StatusBadRequest, "start_time must be formatted HH:MM or HH:MM:SS")
				return
			}
			end, err := schedule.ParseTimeOfDay(e.EndTime)
			if err != nil {
				respondError(c, http.StatusBadRequest, "end_time must be formatted HH:MM or HH:MM:SS")
				return
			}
			entry.StartTime = start
			entry.EndTime = end
		}
		entries = append(entries, entry)
	}

	week, err := h.scheduleSvc.ReplaceWeek(c.Request.Context(), doctorID, entries, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toWorkingHourResponses(week))
}

// GET /api/v1/off-days
func (h *ScheduleHandler) ListOffDays(c *gin.Context) {
	var from time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "from must be formatted YYYY-MM-DD")
			return
		}
		from = parsed
	}

	days, err := h.scheduleSvc.ListOffDays(c.Request.Context(), from)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	count := len(days)
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: days, Count: &count})
}

type offDayRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

// POST /api/v1/off-days
func (h *ScheduleHandler) AddOffDay(c *gin.Context) {
	var req offDayRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	day, err := h.scheduleSvc.AddOffDay(c.Request.Context(), date, req.Reason, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, "off day added", day)
}

// DELETE /api/v1/off-days/:id
func (h *ScheduleHandler) RemoveOffDay(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleSvc.RemoveOffDay(c.Request.Context(), id, callerEntry(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "off day removed")
}
