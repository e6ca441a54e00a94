package importer

import (
	"context"
	"strings"
	"sync"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/logger"
	"deployment-tracker/internal/spreadsheet"

	"github.com/google/uuid"
)

// AnalysisFailedNotice is shown when inference is unavailable
const AnalysisFailedNotice = "automatic analysis failed; map columns manually"

// RefreshFunc reloads whatever the caller shows after a successful import
type RefreshFunc func(ctx context.Context, projectID uuid.UUID) error

// Option configures a Session
type Option func(*Session)

// WithAnalyzer overrides the analyzer; by default the backend analyzes
func WithAnalyzer(a Analyzer) Option {
	return func(s *Session) { s.analyzer = a }
}

// WithRefresh registers the hook called after a successful submission
func WithRefresh(fn RefreshFunc) Option {
	return func(s *Session) { s.refresh = fn }
}

// Session owns one interactive import: the selected file, its preview, the
// mapping draft and the in-flight submission flag. The file and draft survive
// a failed submission so it can be retried; they are cleared on success.
type Session struct {
	backend  Backend
	analyzer Analyzer
	refresh  RefreshFunc
	log      *logger.Logger

	mu         sync.Mutex
	submitting bool
	analyzing  bool
	file       *Upload
	sheet      *spreadsheet.Sheet
	draft      *Draft
	notice     string
	projectID  uuid.UUID
	fields     []models.ProjectField
}

// NewSession creates an import session talking to backend
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		analyzer: backend,
		log:      logger.Component("import-session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenProject switches the session to the existing-project workflow and
// auto-maps the current draft, if any, against the project's fields.
func (s *Session) OpenProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.backend.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = project.ID
	s.fields = project.SortedFields()
	if s.draft != nil {
		s.draft.AutoMap(s.fields)
	}
	return project, nil
}

// Load selects a file, builds its preview and an initial draft. Local decode
// failures and analysis failures degrade to manual mapping; Load only fails
// when neither produced any columns.
func (s *Session) Load(ctx context.Context, file Upload) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return apperrors.ErrSubmissionInProgress
	}
	s.analyzing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.analyzing = false
		s.mu.Unlock()
	}()

	sheet, parseErr := spreadsheet.Read(file.Filename, file.Data)
	if parseErr != nil {
		s.log.WithError(parseErr).Warnf("could not decode %q locally", file.Filename)
	}

	var (
		draft  *Draft
		notice string
	)
	analysis, err := s.analyzer.Analyze(ctx, file)
	switch {
	case err == nil && sheet != nil:
		draft = NewDraft(sheet.Headers, analysis.Columns)
	case err == nil:
		headers := make([]string, len(analysis.Columns))
		for i, c := range analysis.Columns {
			headers[i] = c.Name
		}
		draft = NewDraft(headers, analysis.Columns)
	case sheet != nil:
		s.log.WithError(err).Warn("column analysis failed, falling back to manual mapping")
		draft = NewManualDraft(sheet.Headers)
		notice = AnalysisFailedNotice
	default:
		return parseErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = &Upload{Filename: file.Filename, Data: file.Data}
	s.sheet = sheet
	s.draft = draft
	s.notice = notice
	if len(s.fields) > 0 {
		s.draft.AutoMap(s.fields)
	}
	return nil
}

// Preview returns the header and first rows of the loaded sheet. It reports
// false when the sheet could not be decoded locally.
func (s *Session) Preview() (spreadsheet.Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sheet == nil {
		return spreadsheet.Preview{}, false
	}
	return s.sheet.Preview(spreadsheet.PreviewRowLimit), true
}

// Draft returns the mapping draft for editing, or nil when nothing is loaded
func (s *Session) Draft() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// File returns the selected file, or nil
func (s *Session) File() *Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Fields returns the fields of the open project in display order
func (s *Session) Fields() []models.ProjectField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProjectField(nil), s.fields...)
}

// Notice returns the user-facing message set when analysis degraded
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Busy reports whether analysis or a submission is outstanding
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting || s.analyzing
}

// Cancel discards the file and draft. It is refused while submitting.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return apperrors.ErrSubmissionInProgress
	}
	s.clearLocked()
	return nil
}

// CreateProject submits the loaded file as a new project built from the
// draft's field definitions and returns the new project's id.
func (s *Session) CreateProject(ctx context.Context, name, description, expectedCount string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, apperrors.ErrProjectNameRequired
	}

	var (
		file Upload
		defs []FieldDefinition
	)
	err := s.begin(func() error {
		if err := s.draft.ValidateDefinitions(); err != nil {
			return err
		}
		file = *s.file
		defs = s.draft.FieldDefinitions()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	result, err := s.backend.CreateProjectWithSpreadsheet(ctx, name, description, expectedCount, file, defs)
	s.finish(err == nil)
	if err != nil {
		s.log.WithError(err).Warn("create project with spreadsheet failed")
		return uuid.Nil, err
	}

	s.afterSuccess(ctx, result.ProjectID)
	return result.ProjectID, nil
}

// ImportRows submits the loaded file into the open project using the
// draft's field-to-column mapping.
func (s *Session) ImportRows(ctx context.Context) (*ImportResult, error) {
	var (
		file      Upload
		projectID uuid.UUID
		columnMap map[string]string
	)
	err := s.begin(func() error {
		if s.projectID == uuid.Nil {
			return apperrors.ErrProjectNotFound
		}
		m, err := s.draft.ColumnMap(s.fields)
		if err != nil {
			return err
		}
		file, projectID, columnMap = *s.file, s.projectID, m
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.backend.ImportRowsIntoProject(ctx, projectID, file, columnMap)
	s.finish(err == nil)
	if err != nil {
		s.log.WithError(err).Warnf("import into project %s failed", projectID)
		return nil, err
	}

	s.afterSuccess(ctx, projectID)
	return result, nil
}

// begin marks a submission in flight after prepare succeeds under the lock.
// Submitting is refused while a file is still being analyzed.
func (s *Session) begin(prepare func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting || s.analyzing {
		return apperrors.ErrSubmissionInProgress
	}
	if s.file == nil || s.draft == nil {
		return apperrors.ErrNoDraft
	}
	if err := prepare(); err != nil {
		return err
	}
	s.submitting = true
	return nil
}

func (s *Session) finish(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if success {
		s.clearLocked()
	}
}

func (s *Session) afterSuccess(ctx context.Context, projectID uuid.UUID) {
	if s.refresh == nil {
		return
	}
	if err := s.refresh(ctx, projectID); err != nil {
		s.log.WithError(err).Warn("refresh after import failed")
	}
}

func (s *Session) clearLocked() {
	s.file = nil
	s.sheet = nil
	s.draft = nil
	s.notice = ""
}
