package handlers

import (
	"net/http"

	"deployment-tracker/internal/auth"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/repository"
	"deployment-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeploymentHandler handles HTTP requests for deployment operations
type DeploymentHandler struct {
	deploymentService *service.DeploymentService
}

// NewDeploymentHandler creates a new deployment handler
func NewDeploymentHandler(deploymentService *service.DeploymentService) *DeploymentHandler {
	return &DeploymentHandler{
		deploymentService: deploymentService,
	}
}

// UpdateStatusRequest represents the request to move a deployment to another status
type UpdateStatusRequest struct {
	StatusID string `json:"status_id"`
}

// AssignTechnicianRequest represents the request to assign a technician; a
// null technician_id unassigns
type AssignTechnicianRequest struct {
	TechnicianID *uuid.UUID `json:"technician_id"`
}

// ListDeployments handles GET /deployments
// @Summary List deployments
// @Description Get a paginated, filtered list of deployments. Technicians only see deployments assigned to them.
// @Tags deployments
// @Produce json
// @Param project query string false "Project ID (UUID)"
// @Param status query string false "Status ID (UUID)"
// @Param technician query string false "Technician ID (UUID)"
// @Param department query string false "Department ID (UUID)"
// @Param search query string false "Matches deployment ID, assignee or location"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} service.DeploymentListResponse "Successfully retrieved deployments"
// @Failure 400 {object} ErrorResponse "Invalid filter or pagination parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /deployments [get]
func (h *DeploymentHandler) ListDeployments(c *gin.Context) {
	filter, ok := deploymentFilter(c)
	if !ok {
		return
	}
	page, pageSize, ok := pagination(c, 50)
	if !ok {
		return
	}

	response, err := h.deploymentService.List(filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateDeployment handles POST /deployments
// @Summary Create a deployment
// @Description Create a deployment. A blank deployment_id is generated and a missing status falls back to the default status.
// @Tags deployments
// @Accept json
// @Produce json
// @Param deployment body service.CreateDeploymentRequest true "Deployment data"
// @Success 201 {object} models.Deployment "Successfully created deployment"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Project, status or technician not found"
// @Failure 409 {object} ErrorResponse "Deployment ID already used in the project"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /deployments [post]
func (h *DeploymentHandler) CreateDeployment(c *gin.Context) {
	var req service.CreateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	deployment, err := h.deploymentService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deployment)
}

// GetDeployment handles GET /deployments/:id
// @Summary Get deployment by ID
// @Description Get a deployment with its status, department, technician and field values
// @Tags deployments
// @Produce json
// @Param id path string true "Deployment ID (UUID)"
// @Success 200 {object} models.Deployment "Successfully retrieved deployment"
// @Failure 400 {object} ErrorResponse "Invalid deployment ID"
// @Failure 403 {object} ErrorResponse "Deployment assigned to another technician"
// @Failure 404 {object} ErrorResponse "Deployment not found"
// @Security BearerAuth
// @Router /deployments/{id} [get]
func (h *DeploymentHandler) GetDeployment(c *gin.Context) {
	id, ok := uuidParam(c, "id", "deployment")
	if !ok {
		return
	}

	deployment, err := h.deploymentService.Authorize(actorOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deployment)
}

// UpdateDeployment handles PUT /deployments/:id
// @Summary Update a deployment
// @Description Update the given members and field values of a deployment. Technicians may only change technician_notes and deployment_date of deployments assigned to them.
// @Tags deployments
// @Accept json
// @Produce json
// @Param id path string true "Deployment ID (UUID)"
// @Param deployment body service.UpdateDeploymentRequest true "Members to change"
// @Success 200 {object} models.Deployment "Successfully updated deployment"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 403 {object} ErrorResponse "Not assigned, or member reserved to admins"
// @Failure 404 {object} ErrorResponse "Deployment not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /deployments/{id} [put]
func (h *DeploymentHandler) UpdateDeployment(c *gin.Context) {
	id, ok := uuidParam(c, "id", "deployment")
	if !ok {
		return
	}

	var req service.UpdateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	actor := actorOf(c)
	if _, err := h.deploymentService.Authorize(actor, id); err != nil {
		respondError(c, err)
		return
	}
	if !actor.Admin && !req.TechnicianEditable() {
		respondError(c, apperrors.ErrTechnicianEdit)
		return
	}

	deployment, err := h.deploymentService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deployment)
}

// DeleteDeployment handles DELETE /deployments/:id
// @Summary Delete a deployment
// @Tags deployments
// @Param id path string true "Deployment ID (UUID)"
// @Success 204 "Successfully deleted deployment"
// @Failure 400 {object} ErrorResponse "Invalid deployment ID"
// @Failure 404 {object} ErrorResponse "Deployment not found"
// @Security BearerAuth
// @Router /deployments/{id} [delete]
func (h *DeploymentHandler) DeleteDeployment(c *gin.Context) {
	id, ok := uuidParam(c, "id", "deployment")
	if !ok {
		return
	}

	if err := h.deploymentService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateStatus handles POST /deployments/:id/update_status
// @Summary Change a deployment's status
// @Tags deployments
// @Accept json
// @Produce json
// @Param id path string true "Deployment ID (UUID)"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} models.Deployment "Updated deployment"
// @Failure 400 {object} ErrorResponse "Missing or invalid status ID"
// @Failure 403 {object} ErrorResponse "Deployment assigned to another technician"
// @Failure 404 {object} ErrorResponse "Deployment or status not found"
// @Security BearerAuth
// @Router /deployments/{id}/update_status [post]
func (h *DeploymentHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id", "deployment")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := h.deploymentService.Authorize(actorOf(c), id); err != nil {
		respondError(c, err)
		return
	}

	deployment, err := h.deploymentService.UpdateStatus(id, req.StatusID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deployment)
}

// AssignTechnician handles POST /deployments/:id/assign_technician
// @Summary Assign a technician
// @Description Assign a technician to a deployment; a null technician_id unassigns
// @Tags deployments
// @Accept json
// @Produce json
// @Param id path string true "Deployment ID (UUID)"
// @Param technician body AssignTechnicianRequest true "Technician"
// @Success 200 {object} models.Deployment "Updated deployment"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Deployment or technician not found"
// @Security BearerAuth
// @Router /deployments/{id}/assign_technician [post]
func (h *DeploymentHandler) AssignTechnician(c *gin.Context) {
	id, ok := uuidParam(c, "id", "deployment")
	if !ok {
		return
	}

	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	deployment, err := h.deploymentService.AssignTechnician(id, req.TechnicianID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deployment)
}

// ExportExcel handles GET /deployments/export_excel
// @Summary Export deployments
// @Description Download the filtered deployments as an xlsx workbook. With a project filter its fields become extra columns.
// @Tags deployments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param project query string false "Project ID (UUID)"
// @Param status query string false "Status ID (UUID)"
// @Param technician query string false "Technician ID (UUID)"
// @Param department query string false "Department ID (UUID)"
// @Param search query string false "Matches deployment ID, assignee or location"
// @Success 200 {file} file "Deployments workbook"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /deployments/export_excel [get]
func (h *DeploymentHandler) ExportExcel(c *gin.Context) {
	filter, ok := deploymentFilter(c)
	if !ok {
		return
	}

	filename, data, err := h.deploymentService.ExportExcel(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	sendWorkbook(c, filename, data)
}

// actorOf describes the request's session to the deployment service
func actorOf(c *gin.Context) service.Actor {
	session, _ := auth.GetSession(c)
	return service.Actor{Admin: session.IsAdmin(), TechnicianID: session.TechnicianID}
}

// deploymentFilter builds the list filter from the query. Sessions without
// the admin role are pinned to their own technician record.
func deploymentFilter(c *gin.Context) (repository.DeploymentFilter, bool) {
	var (
		filter repository.DeploymentFilter
		ok     bool
	)
	if filter.ProjectID, ok = optionalUUIDQuery(c, "project"); !ok {
		return filter, false
	}
	if filter.StatusID, ok = optionalUUIDQuery(c, "status"); !ok {
		return filter, false
	}
	if filter.TechnicianID, ok = optionalUUIDQuery(c, "technician"); !ok {
		return filter, false
	}
	if filter.DepartmentID, ok = optionalUUIDQuery(c, "department"); !ok {
		return filter, false
	}
	filter.Search = c.Query("search")

	if session, found := auth.GetSession(c); found && !session.IsAdmin() {
		own := uuid.Nil
		if session.TechnicianID != nil {
			own = *session.TechnicianID
		}
		filter.TechnicianID = &own
	}
	return filter, true
}
