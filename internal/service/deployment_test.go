package service_test

import (
	"testing"
	"time"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/mocks"
	"deployment-tracker/internal/repository"
	"deployment-tracker/internal/service"
	"deployment-tracker/internal/spreadsheet"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// DeploymentServiceTestSuite defines the test suite for DeploymentService
type DeploymentServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockRepo        *mocks.MockDeploymentRepositoryInterface
	mockProjects    *mocks.MockProjectRepositoryInterface
	mockStatuses    *mocks.MockStatusRepositoryInterface
	mockTechnicians *mocks.MockTechnicianRepositoryInterface
	svc             *service.DeploymentService
}

func (suite *DeploymentServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockDeploymentRepositoryInterface(suite.ctrl)
	suite.mockProjects = mocks.NewMockProjectRepositoryInterface(suite.ctrl)
	suite.mockStatuses = mocks.NewMockStatusRepositoryInterface(suite.ctrl)
	suite.mockTechnicians = mocks.NewMockTechnicianRepositoryInterface(suite.ctrl)
	suite.svc = service.NewDeploymentService(suite.mockRepo, suite.mockProjects, suite.mockStatuses, suite.mockTechnicians, validator.New())
}

func (suite *DeploymentServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func projectWithFields(fields ...models.ProjectField) *models.Project {
	p := &models.Project{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Laptop Refresh"}
	for i := range fields {
		fields[i].ID = uuid.New()
		fields[i].ProjectID = p.ID
		fields[i].Order = i
	}
	p.Fields = fields
	return p
}

func (suite *DeploymentServiceTestSuite) TestCreateFillsDefaults() {
	project := projectWithFields(
		models.ProjectField{Name: "Serial", FieldType: models.FieldTypeText, IsRequired: true},
		models.ProjectField{Name: "Cost", FieldType: models.FieldTypeNumber},
	)
	statusID := uuid.New()

	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)
	suite.mockRepo.EXPECT().GetByCode(project.ID, gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
	suite.mockStatuses.EXPECT().GetDefault().Return(&models.DeploymentStatus{BaseModel: models.BaseModel{ID: statusID}}, nil)
	suite.mockRepo.EXPECT().Create(gomock.Any()).Return(nil)

	d, err := suite.svc.Create(&service.CreateDeploymentRequest{
		ProjectID:  project.ID,
		AssignedTo: "Ann",
		FieldValues: map[string]string{
			project.Fields[0].ID.String(): " SN-1 ",
			project.Fields[1].ID.String(): "$1,000",
		},
	})
	suite.Require().NoError(err)
	suite.Regexp(deploymentCodePattern, d.DeploymentID)
	suite.Equal(&statusID, d.StatusID)
	suite.Require().Len(d.FieldValues, 2)
	suite.Equal("SN-1", d.FieldValues[0].Value)
	suite.Equal("1000", d.FieldValues[1].Value)
}

func (suite *DeploymentServiceTestSuite) TestCreateRejectsMissingRequiredField() {
	project := projectWithFields(models.ProjectField{Name: "Serial", FieldType: models.FieldTypeText, IsRequired: true})
	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)

	_, err := suite.svc.Create(&service.CreateDeploymentRequest{ProjectID: project.ID})
	suite.Require().True(apperrors.IsValidation(err))
	var verr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Equal([]string{"Serial"}, verr.Fields)
}

func (suite *DeploymentServiceTestSuite) TestCreateRejectsForeignField() {
	project := projectWithFields()
	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)

	_, err := suite.svc.Create(&service.CreateDeploymentRequest{
		ProjectID:   project.ID,
		FieldValues: map[string]string{uuid.NewString(): "x"},
	})
	suite.True(apperrors.IsValidation(err))
}

func (suite *DeploymentServiceTestSuite) TestCreateDuplicateCode() {
	project := projectWithFields()
	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)
	suite.mockRepo.EXPECT().GetByCode(project.ID, "DEP-1").Return(&models.Deployment{}, nil)

	_, err := suite.svc.Create(&service.CreateDeploymentRequest{ProjectID: project.ID, DeploymentID: "DEP-1"})
	suite.ErrorIs(err, apperrors.ErrDeploymentExists)
}

func (suite *DeploymentServiceTestSuite) TestCreateUnknownProjectAndTechnician() {
	missing := uuid.New()
	suite.mockProjects.EXPECT().GetWithFields(missing).Return(nil, gorm.ErrRecordNotFound)
	_, err := suite.svc.Create(&service.CreateDeploymentRequest{ProjectID: missing})
	suite.ErrorIs(err, apperrors.ErrProjectNotFound)

	project := projectWithFields()
	techID := uuid.New()
	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)
	suite.mockRepo.EXPECT().GetByCode(project.ID, gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
	suite.mockStatuses.EXPECT().GetDefault().Return(nil, gorm.ErrRecordNotFound)
	suite.mockTechnicians.EXPECT().GetByID(techID).Return(nil, gorm.ErrRecordNotFound)

	_, err = suite.svc.Create(&service.CreateDeploymentRequest{ProjectID: project.ID, TechnicianID: &techID})
	suite.ErrorIs(err, apperrors.ErrTechnicianNotFound)
}

func (suite *DeploymentServiceTestSuite) TestListClampsPagination() {
	filter := repository.DeploymentFilter{Search: "ann"}
	suite.mockRepo.EXPECT().List(filter, 50, 0).Return(nil, int64(0), nil)

	resp, err := suite.svc.List(filter, -1, 500)
	suite.Require().NoError(err)
	suite.Equal(1, resp.Page)
	suite.Equal(50, resp.PageSize)
	suite.NotNil(resp.Deployments)
}

func (suite *DeploymentServiceTestSuite) TestUpdateSavesFieldValues() {
	project := projectWithFields(models.ProjectField{Name: "Docked", FieldType: models.FieldTypeCheckbox})
	existing := &models.Deployment{BaseModel: models.BaseModel{ID: uuid.New()}, ProjectID: project.ID, AssignedTo: "Ann", Location: "HQ"}
	location := "Annex"

	suite.mockRepo.EXPECT().GetByID(existing.ID).Return(existing, nil).Times(2)
	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)
	suite.mockRepo.EXPECT().Update(existing).Return(nil)
	suite.mockRepo.EXPECT().SaveFieldValues(existing.ID, []models.DeploymentFieldValue{
		{FieldID: project.Fields[0].ID, Value: "true"},
	}).Return(nil)

	d, err := suite.svc.Update(existing.ID, &service.UpdateDeploymentRequest{
		Location:    &location,
		FieldValues: map[string]string{project.Fields[0].ID.String(): "yes"},
	})
	suite.Require().NoError(err)
	suite.Equal("Annex", d.Location)
	suite.Equal("Ann", d.AssignedTo)
}

func (suite *DeploymentServiceTestSuite) TestUpdateStatus() {
	id := uuid.New()

	_, err := suite.svc.UpdateStatus(id, " ")
	suite.ErrorIs(err, apperrors.ErrStatusRequired)

	_, err = suite.svc.UpdateStatus(id, "not-a-uuid")
	suite.True(apperrors.IsValidation(err))

	statusID := uuid.New()
	suite.mockRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.svc.UpdateStatus(id, statusID.String())
	suite.ErrorIs(err, apperrors.ErrDeploymentNotFound)

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.Deployment{}, nil)
	suite.mockStatuses.EXPECT().GetByID(statusID).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.svc.UpdateStatus(id, statusID.String())
	suite.ErrorIs(err, apperrors.ErrStatusNotFound)

	updated := &models.Deployment{StatusID: &statusID}
	gomock.InOrder(
		suite.mockRepo.EXPECT().GetByID(id).Return(&models.Deployment{}, nil),
		suite.mockRepo.EXPECT().GetByID(id).Return(updated, nil),
	)
	suite.mockStatuses.EXPECT().GetByID(statusID).Return(&models.DeploymentStatus{}, nil)
	suite.mockRepo.EXPECT().UpdateStatus(id, statusID).Return(nil)
	d, err := suite.svc.UpdateStatus(id, statusID.String())
	suite.Require().NoError(err)
	suite.Equal(&statusID, d.StatusID)
}

func (suite *DeploymentServiceTestSuite) TestAssignTechnician() {
	id, techID := uuid.New(), uuid.New()

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.Deployment{}, nil).Times(2)
	suite.mockTechnicians.EXPECT().GetByID(techID).Return(&models.Technician{}, nil)
	suite.mockRepo.EXPECT().AssignTechnician(id, &techID).Return(nil)
	_, err := suite.svc.AssignTechnician(id, &techID)
	suite.NoError(err)

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.Deployment{}, nil).Times(2)
	suite.mockRepo.EXPECT().AssignTechnician(id, nil).Return(nil)
	_, err = suite.svc.AssignTechnician(id, nil)
	suite.NoError(err)

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.Deployment{}, nil)
	suite.mockTechnicians.EXPECT().GetByID(techID).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.svc.AssignTechnician(id, &techID)
	suite.ErrorIs(err, apperrors.ErrTechnicianNotFound)
}

func (suite *DeploymentServiceTestSuite) TestAuthorize() {
	techID, otherID := uuid.New(), uuid.New()
	assigned := &models.Deployment{BaseModel: models.BaseModel{ID: uuid.New()}, TechnicianID: &techID}
	unassigned := &models.Deployment{BaseModel: models.BaseModel{ID: uuid.New()}}
	suite.mockRepo.EXPECT().GetByID(assigned.ID).Return(assigned, nil).AnyTimes()
	suite.mockRepo.EXPECT().GetByID(unassigned.ID).Return(unassigned, nil).AnyTimes()

	d, err := suite.svc.Authorize(service.Actor{TechnicianID: &techID}, assigned.ID)
	suite.Require().NoError(err)
	suite.Equal(assigned.ID, d.ID)

	_, err = suite.svc.Authorize(service.Actor{TechnicianID: &otherID}, assigned.ID)
	suite.ErrorIs(err, apperrors.ErrNotAssigned)
	suite.True(apperrors.IsAuthorization(err))

	_, err = suite.svc.Authorize(service.Actor{}, assigned.ID)
	suite.ErrorIs(err, apperrors.ErrNotAssigned)

	_, err = suite.svc.Authorize(service.Actor{TechnicianID: &techID}, unassigned.ID)
	suite.ErrorIs(err, apperrors.ErrNotAssigned)

	_, err = suite.svc.Authorize(service.Actor{Admin: true}, unassigned.ID)
	suite.NoError(err)

	missing := uuid.New()
	suite.mockRepo.EXPECT().GetByID(missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.svc.Authorize(service.Actor{Admin: true}, missing)
	suite.ErrorIs(err, apperrors.ErrDeploymentNotFound)
}

func (suite *DeploymentServiceTestSuite) TestTechnicianEditable() {
	notes, location := "swapped dock", "Annex"
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	suite.True((&service.UpdateDeploymentRequest{TechnicianNotes: &notes, DeploymentDate: &when}).TechnicianEditable())
	suite.True((&service.UpdateDeploymentRequest{}).TechnicianEditable())
	suite.False((&service.UpdateDeploymentRequest{TechnicianNotes: &notes, Location: &location}).TechnicianEditable())
	suite.False((&service.UpdateDeploymentRequest{FieldValues: map[string]string{uuid.NewString(): "x"}}).TechnicianEditable())
}

func (suite *DeploymentServiceTestSuite) TestExportExcelForProject() {
	project := projectWithFields(
		models.ProjectField{Name: "Serial", FieldType: models.FieldTypeText},
		models.ProjectField{Name: "Docked", FieldType: models.FieldTypeCheckbox},
	)
	project.Name = "Laptop Refresh"
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	filter := repository.DeploymentFilter{ProjectID: &project.ID}

	suite.mockProjects.EXPECT().GetWithFields(project.ID).Return(project, nil)
	suite.mockRepo.EXPECT().ListAll(filter).Return([]models.Deployment{{
		BaseModel:      models.BaseModel{CreatedAt: created, UpdatedAt: created},
		DeploymentID:   "DEP-000001",
		AssignedTo:     "Ann",
		Status:         &models.DeploymentStatus{Name: "Pending"},
		Technician:     &models.Technician{Name: "Tess"},
		DeploymentDate: &date,
		FieldValues:    []models.DeploymentFieldValue{{FieldID: project.Fields[1].ID, Value: "true"}},
	}}, nil)

	filename, data, err := suite.svc.ExportExcel(filter)
	suite.Require().NoError(err)
	suite.Equal("Laptop_Refresh_deployments.xlsx", filename)

	sheet, err := spreadsheet.Read(filename, data)
	suite.Require().NoError(err)
	suite.Equal("Laptop Refresh", sheet.Name)
	suite.Len(sheet.Headers, 17)
	suite.Equal([]string{"Serial", "Docked"}, sheet.Headers[15:])
	suite.Require().Len(sheet.Rows, 1)
	row := sheet.Rows[0]
	suite.Equal("DEP-000001", row[0])
	suite.Equal("Pending", row[1])
	suite.Equal("Tess", row[10])
	suite.Equal("2024-03-01", row[12])
	suite.Equal("2024-02-01 09:30:00", row[13])
	suite.Equal("", row[15])
	suite.Equal("true", row[16])
}

func (suite *DeploymentServiceTestSuite) TestExportExcelWithoutProject() {
	suite.mockRepo.EXPECT().ListAll(repository.DeploymentFilter{}).Return(nil, nil)

	filename, data, err := suite.svc.ExportExcel(repository.DeploymentFilter{})
	suite.Require().NoError(err)
	suite.Equal("deployments.xlsx", filename)

	sheet, err := spreadsheet.Read(filename, data)
	suite.Require().NoError(err)
	suite.Equal("Deployments", sheet.Name)
	suite.Len(sheet.Headers, 15)
	suite.Empty(sheet.Rows)

	missing := uuid.New()
	suite.mockProjects.EXPECT().GetWithFields(missing).Return(nil, gorm.ErrRecordNotFound)
	_, _, err = suite.svc.ExportExcel(repository.DeploymentFilter{ProjectID: &missing})
	suite.ErrorIs(err, apperrors.ErrProjectNotFound)
}

func TestDeploymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DeploymentServiceTestSuite))
}
