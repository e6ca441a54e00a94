package handlers

import (
	"net/http"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles HTTP requests for project operations
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects handles GET /projects
// @Summary List projects
// @Description Get a paginated list of projects, newest first
// @Tags projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.ProjectListResponse "Successfully retrieved projects"
// @Failure 400 {object} ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, pageSize, ok := pagination(c, 20)
	if !ok {
		return
	}

	response, err := h.projectService.GetAll(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateProject handles POST /projects
// @Summary Create a new project
// @Description Create a project without fields
// @Tags projects
// @Accept json
// @Produce json
// @Param project body service.CreateProjectRequest true "Project data"
// @Success 201 {object} models.Project "Successfully created project"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, _ := auth.GetSession(c)
	project, err := h.projectService.Create(&req, session.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject handles GET /projects/:id
// @Summary Get project by ID
// @Description Get a project together with its fields in display order
// @Tags projects
// @Produce json
// @Param id path string true "Project ID (UUID)"
// @Success 200 {object} models.Project "Successfully retrieved project"
// @Failure 400 {object} ErrorResponse "Invalid project ID"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject handles PUT /projects/:id
// @Summary Update a project
// @Description Update the name, description or expected count of a project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID (UUID)"
// @Param project body service.UpdateProjectRequest true "Members to change"
// @Success 200 {object} models.Project "Successfully updated project"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}

	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projectService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /projects/:id
// @Summary Delete a project
// @Description Delete a project with its fields and deployments
// @Tags projects
// @Param id path string true "Project ID (UUID)"
// @Success 204 "Successfully deleted project"
// @Failure 400 {object} ErrorResponse "Invalid project ID"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddField handles POST /projects/:id/add_field
// @Summary Add a field to a project
// @Description Append a custom field. Options apply to dropdown fields and may be a list or a comma-separated string.
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID (UUID)"
// @Param field body service.AddFieldRequest true "Field definition"
// @Success 201 {object} models.ProjectField "Successfully added field"
// @Failure 400 {object} ErrorResponse "Invalid field"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 409 {object} ErrorResponse "Field name already used in the project"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/{id}/add_field [post]
func (h *ProjectHandler) AddField(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}

	var req service.AddFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	field, err := h.projectService.AddField(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, field)
}

// RemoveField handles DELETE /projects/:id/remove_field/:field_id
// @Summary Remove a field from a project
// @Description Delete a custom field and the values stored for it
// @Tags projects
// @Param id path string true "Project ID (UUID)"
// @Param field_id path string true "Field ID (UUID)"
// @Success 204 "Successfully removed field"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Field not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/{id}/remove_field/{field_id} [delete]
func (h *ProjectHandler) RemoveField(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}
	fieldID, ok := uuidParam(c, "field_id", "field")
	if !ok {
		return
	}

	if err := h.projectService.RemoveField(id, fieldID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
