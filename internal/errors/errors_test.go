package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "project"}
		assert.Equal(t, "project not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "project"}
		err2 := &NotFoundError{Entity: "project"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "project"}
		err2 := &NotFoundError{Entity: "field"}
		assert.False(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is with predefined errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrProjectNotFound, ErrProjectNotFound))
		assert.False(t, errors.Is(ErrProjectNotFound, ErrFieldNotFound))
	})

	t.Run("errors.Is through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("failed to get project: %w", ErrProjectNotFound)
		assert.True(t, errors.Is(wrapped, ErrProjectNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrDeploymentNotFound))
		assert.False(t, IsNotFound(ErrMissingFile))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "field", Context: "in the project"}
		assert.Equal(t, "field already exists in the project", err.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "field"}
		assert.Equal(t, "field already exists", err.Error())
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrFieldExists))
		assert.False(t, IsAlreadyExists(ErrFieldNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "name", Message: "is required"}
		assert.Equal(t, "validation error: name - is required", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("Missing fields lists every name", func(t *testing.T) {
		err := NewMissingFieldsError([]string{"Serial", "Location"})
		assert.Equal(t, "Please map all required fields: Serial, Location", err.Error())

		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"Serial", "Location"}, verr.Fields)
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		assert.True(t, IsValidation(NewValidationError("name", "invalid")))
		assert.False(t, IsValidation(ErrProjectNotFound))
	})
}

func TestParseError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := NewParseError("could not open workbook", cause)

	assert.Equal(t, "parse error: could not open workbook: zip: not a valid zip file", err.Error())
	assert.True(t, IsParse(err))
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsParse(ErrEmptySpreadsheet))
	assert.False(t, IsParse(cause))
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("analyze spreadsheet", cause)

	assert.Equal(t, "analyze spreadsheet: connection refused", err.Error())
	assert.True(t, IsNetwork(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsServer(err))
}

func TestServerError(t *testing.T) {
	t.Run("uses the server message verbatim", func(t *testing.T) {
		err := NewServerError(http.StatusInternalServerError, "bad format", "failed to import")
		assert.Equal(t, "bad format", err.Error())
		assert.True(t, IsServer(err))
	})

	t.Run("falls back when the server sent nothing", func(t *testing.T) {
		err := NewServerError(http.StatusBadGateway, "  ", "failed to import")
		assert.Equal(t, "failed to import", err.Error())

		var serverErr *ServerError
		assert.True(t, errors.As(err, &serverErr))
		assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
	})
}

func TestAuthErrors(t *testing.T) {
	assert.True(t, IsAuthentication(ErrInvalidCredentials))
	assert.True(t, IsAuthorization(ErrAdminRequired))
	assert.False(t, IsAuthorization(ErrInvalidCredentials))
	assert.True(t, IsConfiguration(ErrJWTSecretMissing))
}
