package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/service"
)

type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

type createDoctorRequest struct {
	Name            string  `json:"name" binding:"required"`
	Designation     string  `json:"designation"`
	Specialization  string  `json:"specialization"`
	ImageURL        string  `json:"imageUrl"`
	ConsultationFee float64 `json:"consultationFee"`
}

// POST /api/v1/doctors
func (h *CatalogHandler) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.catalogSvc.CreateDoctor(c.Request.Context(), &doctor.CreateDoctorCommand{
		Name:            req.Name,
		Designation:     req.Designation,
		Specialization:  req.Specialization,
		ImageURL:        req.ImageURL,
		ConsultationFee: req.ConsultationFee,
	}, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, "doctor created", d)
}

// GET /api/v1/doctors
func (h *CatalogHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.catalogSvc.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	count := len(doctors)
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: doctors, Count: &count})
}

// GET /api/v1/doctors/:id
func (h *CatalogHandler) GetDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.catalogSvc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

type updateDoctorRequest struct {
	Name            *string  `json:"name"`
	Designation     *string  `json:"designation"`
	Specialization  *string  `json:"specialization"`
	ImageURL        *string  `json:"imageUrl"`
	ConsultationFee *float64 `json:"consultationFee"`
}

// PUT /api/v1/doctors/:id
func (h *CatalogHandler) UpdateDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.catalogSvc.UpdateDoctor(c.Request.Context(), id, &doctor.UpdateDoctorCommand{
		Name:            req.Name,
		Designation:     req.Designation,
		Specialization:  req.Specialization,
		ImageURL:        req.ImageURL,
		ConsultationFee: req.ConsultationFee,
	}, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

// DELETE /api/v1/doctors/:id
func (h *CatalogHandler) DeleteDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogSvc.DeleteDoctor(c.Request.Context(), id, callerEntry(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "doctor deleted")
}

type createServiceRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	DurationMins int     `json:"durationMins"`
	Price        float64 `json:"price"`
}

// POST /api/v1/doctors/:id/services
func (h *CatalogHandler) CreateService(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req createServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.catalogSvc.CreateService(c.Request.Context(), &doctor.CreateServiceCommand{
		DoctorID:     doctorID,
		Name:         req.Name,
		Description:  req.Description,
		DurationMins: req.DurationMins,
		Price:        req.Price,
	}, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, "service created", svc)
}

// GET /api/v1/doctors/:id/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	services, err := h.catalogSvc.ListServices(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	count := len(services)
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: services, Count: &count})
}

type updateServiceRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	DurationMins *int     `json:"durationMins"`
	Price        *float64 `json:"price"`
}

// PUT /api/v1/services/:id
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.catalogSvc.UpdateService(c.Request.Context(), id, &doctor.UpdateServiceCommand{
		Name:         req.Name,
		Description:  req.Description,
		DurationMins: req.DurationMins,
		Price:        req.Price,
	}, callerEntry(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, svc)
}

// DELETE /api/v1/services/:id
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogSvc.DeleteService(c.Request.Context(), id, callerEntry(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "service deleted")
}
