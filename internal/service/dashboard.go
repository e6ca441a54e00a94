package service

import (
	"fmt"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/database/models"
	"deployment-tracker/internal/repository"

	"github.com/google/uuid"
)

const (
	dashboardProjectLimit  = 100
	dashboardAssignedLimit = 20
)

// DashboardService builds the role-specific dashboard summaries
type DashboardService struct {
	projects    repository.ProjectRepositoryInterface
	deployments repository.DeploymentRepositoryInterface
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(projects repository.ProjectRepositoryInterface, deployments repository.DeploymentRepositoryInterface) *DashboardService {
	return &DashboardService{projects: projects, deployments: deployments}
}

// ProjectProgress compares a project's deployments with its expected count
type ProjectProgress struct {
	ProjectID     uuid.UUID `json:"project_id"`
	Name          string    `json:"name"`
	ExpectedCount int       `json:"expected_count"`
	Deployments   int64     `json:"deployments"`
}

// DashboardSummary is the payload of the dashboard endpoint
type DashboardSummary struct {
	View             auth.View                `json:"view"`
	TotalDeployments int64                    `json:"total_deployments"`
	ByStatus         []repository.StatusCount `json:"by_status"`
	Projects         []ProjectProgress        `json:"projects,omitempty"`
	Assigned         []models.Deployment      `json:"assigned,omitempty"`
}

// ForSession dispatches on the session's role
func (s *DashboardService) ForSession(session auth.Session) (*DashboardSummary, error) {
	view, err := auth.ViewFor(session.Role)
	if err != nil {
		return nil, err
	}

	switch view {
	case auth.ViewAdminDashboard:
		return s.adminSummary()
	case auth.ViewTechnicianDashboard:
		return s.technicianSummary(session.TechnicianID)
	}
	return nil, fmt.Errorf("unhandled dashboard view %q", view)
}

func (s *DashboardService) adminSummary() (*DashboardSummary, error) {
	summary := &DashboardSummary{View: auth.ViewAdminDashboard}

	byStatus, err := s.deployments.CountByStatus(repository.DeploymentFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count deployments: %w", err)
	}
	summary.ByStatus, summary.TotalDeployments = normalizeCounts(byStatus)

	projects, _, err := s.projects.GetAll(dashboardProjectLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		id := p.ID
		counts, err := s.deployments.CountByStatus(repository.DeploymentFilter{ProjectID: &id})
		if err != nil {
			return nil, fmt.Errorf("failed to count deployments for project %s: %w", p.ID, err)
		}
		_, total := normalizeCounts(counts)
		summary.Projects = append(summary.Projects, ProjectProgress{
			ProjectID:     p.ID,
			Name:          p.Name,
			ExpectedCount: p.ExpectedCount,
			Deployments:   total,
		})
	}
	return summary, nil
}

// technicianSummary covers only deployments assigned to the technician. A
// user without a technician record sees an empty dashboard.
func (s *DashboardService) technicianSummary(technicianID *uuid.UUID) (*DashboardSummary, error) {
	summary := &DashboardSummary{View: auth.ViewTechnicianDashboard, ByStatus: []repository.StatusCount{}}
	if technicianID == nil {
		return summary, nil
	}

	filter := repository.DeploymentFilter{TechnicianID: technicianID}
	byStatus, err := s.deployments.CountByStatus(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count deployments: %w", err)
	}
	summary.ByStatus, summary.TotalDeployments = normalizeCounts(byStatus)

	assigned, _, err := s.deployments.List(filter, dashboardAssignedLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned deployments: %w", err)
	}
	summary.Assigned = assigned
	return summary, nil
}

func normalizeCounts(counts []repository.StatusCount) ([]repository.StatusCount, int64) {
	if counts == nil {
		counts = []repository.StatusCount{}
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return counts, total
}
