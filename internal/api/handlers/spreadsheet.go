package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"deployment-tracker/internal/auth"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/importer"
	"deployment-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// SpreadsheetHandler handles the spreadsheet import and export endpoints
type SpreadsheetHandler struct {
	spreadsheetService *service.SpreadsheetService
	maxUploadBytes     int64
}

// NewSpreadsheetHandler creates a new spreadsheet handler. Uploads larger
// than maxUploadBytes are rejected; zero disables the check.
func NewSpreadsheetHandler(spreadsheetService *service.SpreadsheetService, maxUploadBytes int64) *SpreadsheetHandler {
	return &SpreadsheetHandler{
		spreadsheetService: spreadsheetService,
		maxUploadBytes:     maxUploadBytes,
	}
}

// AnalyzeExcel handles POST /projects/analyze_excel
// @Summary Analyze a spreadsheet
// @Description Infer a field type and sample values for every column of an uploaded xlsx or csv file
// @Tags spreadsheets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} importer.Analysis "Column analysis"
// @Failure 400 {object} ErrorResponse "Missing or unreadable file"
// @Security BearerAuth
// @Router /projects/analyze_excel [post]
func (h *SpreadsheetHandler) AnalyzeExcel(c *gin.Context) {
	upload, ok := h.requireUpload(c)
	if !ok {
		return
	}

	analysis, err := h.spreadsheetService.Analyze(*upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// CreateWithExcel handles POST /projects/create_with_excel
// @Summary Create a project from a spreadsheet
// @Description Create a project, its fields and one deployment per row in a single transaction. Without a fields part every column becomes a field.
// @Tags spreadsheets
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Project name"
// @Param description formData string false "Project description"
// @Param expected_count formData int false "Expected number of deployments"
// @Param fields formData string false "JSON list of field definitions"
// @Param file formData file false "Spreadsheet"
// @Success 201 {object} importer.CreateProjectResult "Project created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/create_with_excel [post]
func (h *SpreadsheetHandler) CreateWithExcel(c *gin.Context) {
	upload, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	expected, err := strconv.Atoi(strings.TrimSpace(c.PostForm("expected_count")))
	if err != nil || expected < 0 {
		expected = 0
	}

	var fields []importer.FieldDefinition
	if raw := strings.TrimSpace(c.PostForm("fields")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			respondError(c, apperrors.ErrInvalidFieldDefinitions)
			return
		}
	}

	session, _ := auth.GetSession(c)
	result, err := h.spreadsheetService.CreateWithSpreadsheet(&service.CreateWithSpreadsheetRequest{
		Name:          c.PostForm("name"),
		Description:   c.PostForm("description"),
		ExpectedCount: expected,
		CreatedBy:     session.Username,
		File:          upload,
		Fields:        fields,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ImportExcel handles POST /projects/:id/import_excel
// @Summary Import spreadsheet rows into a project
// @Description Create one deployment per row. column_map maps field IDs to spreadsheet headers; common columns are recognized by header name. Rows that fail validation are reported and skipped.
// @Tags spreadsheets
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID (UUID)"
// @Param column_map formData string false "JSON object of field ID to header"
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} importer.ImportResult "Import summary"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /projects/{id}/import_excel [post]
func (h *SpreadsheetHandler) ImportExcel(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}
	upload, ok := h.requireUpload(c)
	if !ok {
		return
	}

	columnMap, err := service.ParseColumnMap(c.PostForm("column_map"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.spreadsheetService.ImportRows(id, *upload, columnMap)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportTemplate handles GET /projects/:id/export_template
// @Summary Download an import template
// @Description Download an xlsx workbook whose header row lists the common columns followed by the project's fields
// @Tags spreadsheets
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Project ID (UUID)"
// @Success 200 {file} file "Template workbook"
// @Failure 400 {object} ErrorResponse "Invalid project ID"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{id}/export_template [get]
func (h *SpreadsheetHandler) ExportTemplate(c *gin.Context) {
	id, ok := uuidParam(c, "id", "project")
	if !ok {
		return
	}

	filename, data, err := h.spreadsheetService.ExportTemplate(id)
	if err != nil {
		respondError(c, err)
		return
	}

	sendWorkbook(c, filename, data)
}

func (h *SpreadsheetHandler) requireUpload(c *gin.Context) (*importer.Upload, bool) {
	upload, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if upload == nil {
		respondError(c, apperrors.ErrMissingFile)
		return nil, false
	}
	return upload, true
}
