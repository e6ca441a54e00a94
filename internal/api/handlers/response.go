package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/importer"
	"deployment-tracker/internal/logger"
	"deployment-tracker/internal/spreadsheet"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error  string   `json:"error" example:"error message"`
	Fields []string `json:"fields,omitempty"`
}

// respondError maps a service error to its HTTP status
func respondError(c *gin.Context, err error) {
	var (
		verr  *apperrors.ValidationError
		vErrs validator.ValidationErrors
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Fields: verr.Fields})
	case errors.As(err, &vErrs), apperrors.IsParse(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		logger.WithContext(c).WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// uuidParam reads a UUID path parameter, answering 400 when it is malformed
func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery reads an optional UUID query parameter
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " parameter"})
		return nil, false
	}
	return &id, true
}

// pagination reads page and page_size, answering 400 when either is not a
// positive integer
func pagination(c *gin.Context, defaultSize int) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		respondError(c, apperrors.ErrInvalidPaginationParams)
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if err != nil || pageSize < 1 {
		respondError(c, apperrors.ErrInvalidPaginationParams)
		return 0, 0, false
	}
	return page, pageSize, true
}

// readUpload reads the multipart "file" part. A missing part yields a nil
// upload so callers decide whether it is required.
func readUpload(c *gin.Context, maxBytes int64) (*importer.Upload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.NewParseError("could not read multipart form", err)
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, apperrors.NewValidationError("file", "file exceeds the upload limit of "+strconv.FormatInt(maxBytes>>20, 10)+" MB")
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperrors.NewParseError("could not open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewParseError("could not read uploaded file", err)
	}
	return &importer.Upload{Filename: header.Filename, Data: data}, nil
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, spreadsheet.ContentTypeXLSX, data)
}
