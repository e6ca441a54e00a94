// Package client talks to the deployment tracker REST API on behalf of an
// import session. It implements importer.Backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/importer"
	"deployment-tracker/internal/logger"

	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// Client is an API client bound to one base URL and session token
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

var _ importer.Backend = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API rooted at baseURL, e.g. http://host/api/v1
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("invalid API base URL '%s': %v", baseURL, err))
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.Component("api-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and keeps it for later calls. The
// auth endpoints live beside the versioned API under /api/auth.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	authURL := *c.baseURL
	authURL.Path = strings.TrimSuffix(authURL.Path, "/v1") + "/auth/login"

	var out loginResponse
	if err := c.do(ctx, "login", http.MethodPost, authURL.String(), "application/json", bytes.NewReader(body), "login failed", &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// GetProject fetches a project with its fields
func (c *Client) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := c.do(ctx, "get project", http.MethodGet, c.endpoint("projects", projectID.String()), "", nil, "failed to load project", &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// AddField appends a field to a project
func (c *Client) AddField(ctx context.Context, projectID uuid.UUID, def importer.FieldDefinition) (*models.ProjectField, error) {
	body, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to encode field: %w", err)
	}

	var field models.ProjectField
	err = c.do(ctx, "add field", http.MethodPost, c.endpoint("projects", projectID.String(), "add_field"), "application/json", bytes.NewReader(body), "failed to add field", &field)
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// Analyze asks the server to infer column types for file
func (c *Client) Analyze(ctx context.Context, file importer.Upload) (*importer.Analysis, error) {
	body, contentType, err := multipartBody(file, nil)
	if err != nil {
		return nil, err
	}

	var analysis importer.Analysis
	if err := c.do(ctx, "analyze spreadsheet", http.MethodPost, c.endpoint("projects", "analyze_excel"), contentType, body, "failed to analyze file", &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// CreateProjectWithSpreadsheet creates a project, its fields and its rows from
// file in one request. An empty or non-numeric expectedCount is sent as 0.
func (c *Client) CreateProjectWithSpreadsheet(ctx context.Context, name, description, expectedCount string, file importer.Upload, fields []importer.FieldDefinition) (*importer.CreateProjectResult, error) {
	parts := [][2]string{
		{"name", name},
		{"description", description},
		{"expected_count", NormalizeExpectedCount(expectedCount)},
	}
	if len(fields) > 0 {
		encoded, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field definitions: %w", err)
		}
		parts = append(parts, [2]string{"fields", string(encoded)})
	}

	body, contentType, err := multipartBody(file, parts)
	if err != nil {
		return nil, err
	}

	var result importer.CreateProjectResult
	if err := c.do(ctx, "create project", http.MethodPost, c.endpoint("projects", "create_with_excel"), contentType, body, "failed to create project", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ImportRowsIntoProject uploads file into an existing project using the given
// field id to header mapping
func (c *Client) ImportRowsIntoProject(ctx context.Context, projectID uuid.UUID, file importer.Upload, fieldIDToHeader map[string]string) (*importer.ImportResult, error) {
	if fieldIDToHeader == nil {
		fieldIDToHeader = map[string]string{}
	}
	columnMap, err := json.Marshal(fieldIDToHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to encode column map: %w", err)
	}

	body, contentType, err := multipartBody(file, [][2]string{{"column_map", string(columnMap)}})
	if err != nil {
		return nil, err
	}

	var result importer.ImportResult
	if err := c.do(ctx, "import rows", http.MethodPost, c.endpoint("projects", projectID.String(), "import_excel"), contentType, body, "failed to import", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportTemplateURL is the download link for a project's import template
func (c *Client) ExportTemplateURL(projectID uuid.UUID) string {
	return c.endpoint("projects", projectID.String(), "export_template")
}

// NormalizeExpectedCount returns the decimal form of a non-negative count, or "0"
func NormalizeExpectedCount(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return "0"
	}
	return strconv.Itoa(n)
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(segments, "/")
	return u.String()
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends one request and decodes a 2xx JSON body into out. Transport
// failures become NetworkError; other statuses become ServerError carrying
// the server's "error" message, or fallback when it sent none.
func (c *Client) do(ctx context.Context, op, method, fullURL, contentType string, body io.Reader, fallback string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debugf("%s %s", method, fullURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return apperrors.NewServerError(resp.StatusCode, eb.Error, fallback)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewParseError(fmt.Sprintf("failed to decode %s response", op), err)
	}
	return nil
}

func multipartBody(file importer.Upload, fields [][2]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	part, err := w.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
