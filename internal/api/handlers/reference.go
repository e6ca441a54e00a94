package handlers

import (
	"net/http"

	"deployment-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves statuses, technicians and departments
type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

// NewReferenceHandler creates a new reference data handler
func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ListStatuses handles GET /statuses
// @Summary List deployment statuses
// @Description Statuses in workflow order; the first one is the default for imports
// @Tags reference
// @Produce json
// @Success 200 {array} models.DeploymentStatus
// @Security BearerAuth
// @Router /statuses [get]
func (h *ReferenceHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.referenceService.ListStatuses()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// CreateStatus handles POST /statuses
// @Summary Create a deployment status
// @Tags reference
// @Accept json
// @Produce json
// @Param status body service.CreateStatusRequest true "Status"
// @Success 201 {object} models.DeploymentStatus
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Status already exists"
// @Security BearerAuth
// @Router /statuses [post]
func (h *ReferenceHandler) CreateStatus(c *gin.Context) {
	var req service.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	status, err := h.referenceService.CreateStatus(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, status)
}

// ListTechnicians handles GET /technicians
// @Summary List technicians
// @Tags reference
// @Produce json
// @Success 200 {array} models.Technician
// @Security BearerAuth
// @Router /technicians [get]
func (h *ReferenceHandler) ListTechnicians(c *gin.Context) {
	technicians, err := h.referenceService.ListTechnicians()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, technicians)
}

// CreateTechnician handles POST /technicians
// @Summary Create a technician
// @Tags reference
// @Accept json
// @Produce json
// @Param technician body service.CreateTechnicianRequest true "Technician"
// @Success 201 {object} models.Technician
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Username already used"
// @Security BearerAuth
// @Router /technicians [post]
func (h *ReferenceHandler) CreateTechnician(c *gin.Context) {
	var req service.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	technician, err := h.referenceService.CreateTechnician(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, technician)
}

// UpdateTechnician handles PUT /technicians/:id
// @Summary Update a technician
// @Tags reference
// @Accept json
// @Produce json
// @Param id path string true "Technician ID (UUID)"
// @Param technician body service.UpdateTechnicianRequest true "Members to change"
// @Success 200 {object} models.Technician
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Technician not found"
// @Failure 409 {object} ErrorResponse "Username already used"
// @Security BearerAuth
// @Router /technicians/{id} [put]
func (h *ReferenceHandler) UpdateTechnician(c *gin.Context) {
	id, ok := uuidParam(c, "id", "technician")
	if !ok {
		return
	}

	var req service.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	technician, err := h.referenceService.UpdateTechnician(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, technician)
}

// DeleteTechnician handles DELETE /technicians/:id
// @Summary Delete a technician
// @Description Deployments and accounts linked to the technician are unlinked
// @Tags reference
// @Param id path string true "Technician ID (UUID)"
// @Success 204 "Technician deleted"
// @Failure 404 {object} ErrorResponse "Technician not found"
// @Security BearerAuth
// @Router /technicians/{id} [delete]
func (h *ReferenceHandler) DeleteTechnician(c *gin.Context) {
	id, ok := uuidParam(c, "id", "technician")
	if !ok {
		return
	}
	if err := h.referenceService.DeleteTechnician(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDepartments handles GET /departments
// @Summary List departments
// @Tags reference
// @Produce json
// @Success 200 {array} models.Department
// @Security BearerAuth
// @Router /departments [get]
func (h *ReferenceHandler) ListDepartments(c *gin.Context) {
	departments, err := h.referenceService.ListDepartments()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// CreateDepartment handles POST /departments
// @Summary Create a department
// @Tags reference
// @Accept json
// @Produce json
// @Param department body service.CreateDepartmentRequest true "Department"
// @Success 201 {object} models.Department
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Department already exists"
// @Security BearerAuth
// @Router /departments [post]
func (h *ReferenceHandler) CreateDepartment(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	department, err := h.referenceService.CreateDepartment(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, department)
}

// UpdateDepartment handles PUT /departments/:id
// @Summary Update a department
// @Tags reference
// @Accept json
// @Produce json
// @Param id path string true "Department ID (UUID)"
// @Param department body service.UpdateDepartmentRequest true "Members to change"
// @Success 200 {object} models.Department
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Department not found"
// @Failure 409 {object} ErrorResponse "Department already exists"
// @Security BearerAuth
// @Router /departments/{id} [put]
func (h *ReferenceHandler) UpdateDepartment(c *gin.Context) {
	id, ok := uuidParam(c, "id", "department")
	if !ok {
		return
	}

	var req service.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	department, err := h.referenceService.UpdateDepartment(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, department)
}

// DeleteDepartment handles DELETE /departments/:id
// @Summary Delete a department
// @Tags reference
// @Param id path string true "Department ID (UUID)"
// @Success 204 "Department deleted"
// @Failure 404 {object} ErrorResponse "Department not found"
// @Security BearerAuth
// @Router /departments/{id} [delete]
func (h *ReferenceHandler) DeleteDepartment(c *gin.Context) {
	id, ok := uuidParam(c, "id", "department")
	if !ok {
		return
	}
	if err := h.referenceService.DeleteDepartment(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
