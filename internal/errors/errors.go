package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in project"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error. Fields lists the offending
// field names when more than one field is involved (e.g. unmapped required fields).
type ValidationError struct {
	Field   string
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ParseError represents an unreadable or unsupported spreadsheet
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError represents a request that never produced an HTTP response
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError represents a non-2xx response from the backend. Message is
// the server-provided error text when present.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrProjectNotFound    = &NotFoundError{Entity: "project"}
	ErrFieldNotFound      = &NotFoundError{Entity: "field"}
	ErrDeploymentNotFound = &NotFoundError{Entity: "deployment"}
	ErrStatusNotFound     = &NotFoundError{Entity: "deployment status"}
	ErrTechnicianNotFound = &NotFoundError{Entity: "technician"}
	ErrDepartmentNotFound = &NotFoundError{Entity: "department"}
	ErrUserNotFound       = &NotFoundError{Entity: "user"}
)

// Already Exists Errors
var (
	ErrProjectExists    = &AlreadyExistsError{Entity: "project", Context: "with this name"}
	ErrFieldExists      = &AlreadyExistsError{Entity: "field", Context: "with this name in the project"}
	ErrDeploymentExists = &AlreadyExistsError{Entity: "deployment", Context: "with this deployment ID in the project"}
	ErrTechnicianExists = &AlreadyExistsError{Entity: "technician", Context: "with this username"}
	ErrDepartmentExists = &AlreadyExistsError{Entity: "department", Context: "with this name"}
	ErrUserExists       = &AlreadyExistsError{Entity: "user", Context: "with this username"}
	ErrStatusExists     = &AlreadyExistsError{Entity: "deployment status", Context: "with this name"}
)

// Import Errors
var (
	ErrEmptySpreadsheet        = &ParseError{Message: "spreadsheet contains no rows"}
	ErrUnsupportedFormat       = &ParseError{Message: "unsupported spreadsheet format"}
	ErrMissingFile             = &ValidationError{Field: "file", Message: "no file provided"}
	ErrInvalidColumnMap        = &ValidationError{Field: "column_map", Message: "column_map must be a JSON object of field id to column header"}
	ErrInvalidFieldDefinitions = &ValidationError{Field: "fields", Message: "fields must be a JSON list of field definitions"}
	ErrDefaultStatusNotSet     = &ValidationError{Field: "status", Message: "no deployment status defined, create at least one status"}
	ErrSubmissionInProgress    = errors.New("a submission is already in progress")
	ErrNoDraft                 = errors.New("no spreadsheet loaded")
	ErrProjectNameRequired     = &ValidationError{Field: "name", Message: "project name is required"}
	ErrInvalidFieldType        = &ValidationError{Field: "field_type", Message: "invalid field type"}
	ErrFieldNameRequired       = &ValidationError{Field: "name", Message: "field name is required"}
	ErrStatusRequired          = &ValidationError{Field: "status", Message: "status ID is required"}
	ErrInvalidPaginationParams = &ValidationError{Field: "page", Message: "page and page_size must be positive integers"}
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid username or password"}
	ErrNotAuthenticated   = &AuthenticationError{Message: "authentication required"}
	ErrAdminRequired      = &AuthorizationError{Message: "admin role required"}
	ErrNotAssigned        = &AuthorizationError{Message: "deployment is not assigned to you"}
	ErrTechnicianEdit     = &AuthorizationError{Message: "technicians may only change technician_notes and deployment_date"}
)

// Configuration Errors
var (
	ErrJWTSecretMissing = &ConfigurationError{Message: "JWT_SECRET is required in production"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.Is(err, &NotFoundError{}) || errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.Is(err, &AlreadyExistsError{}) || errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsParse checks if an error is a ParseError
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsNetwork checks if an error is a NetworkError
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsServer checks if an error is a ServerError
func IsServer(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewMissingFieldsError reports required fields that have no mapped column
func NewMissingFieldsError(fields []string) error {
	return &ValidationError{Message: "Please map all required fields", Fields: fields}
}

// NewParseError wraps a decoder failure
func NewParseError(message string, err error) error {
	return &ParseError{Message: message, Err: err}
}

// NewNetworkError wraps a transport failure for the named operation
func NewNetworkError(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}

// NewServerError creates a ServerError, falling back to the given default
// message when the server did not supply one
func NewServerError(status int, message, fallback string) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return &ServerError{StatusCode: status, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
