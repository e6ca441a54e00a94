package service_test

import (
	"encoding/json"
	"errors"
	"testing"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/mocks"
	"deployment-tracker/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// ProjectServiceTestSuite defines the test suite for ProjectService
type ProjectServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockRepo       *mocks.MockProjectRepositoryInterface
	mockFieldRepo  *mocks.MockFieldRepositoryInterface
	projectService *service.ProjectService
}

// SetupTest sets up the test suite
func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockProjectRepositoryInterface(suite.ctrl)
	suite.mockFieldRepo = mocks.NewMockFieldRepositoryInterface(suite.ctrl)
	suite.projectService = service.NewProjectService(suite.mockRepo, suite.mockFieldRepo, validator.New())
}

// TearDownTest cleans up after each test
func (suite *ProjectServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ProjectServiceTestSuite) TestCreate() {
	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(p *models.Project) error {
		suite.Equal("Laptop refresh", p.Name)
		suite.Equal("admin", p.CreatedBy)
		p.ID = uuid.New()
		return nil
	})

	project, err := suite.projectService.Create(&service.CreateProjectRequest{Name: "  Laptop refresh ", ExpectedCount: 40}, "admin")
	suite.Require().NoError(err)
	suite.NotEqual(uuid.Nil, project.ID)
	suite.Equal(40, project.ExpectedCount)
}

func (suite *ProjectServiceTestSuite) TestCreateRequiresName() {
	_, err := suite.projectService.Create(&service.CreateProjectRequest{Name: "   "}, "admin")
	suite.ErrorIs(err, apperrors.ErrProjectNameRequired)

	_, err = suite.projectService.Create(&service.CreateProjectRequest{Name: "x", ExpectedCount: -1}, "admin")
	suite.Error(err)
}

func (suite *ProjectServiceTestSuite) TestGetByIDMapsNotFound() {
	id := uuid.New()
	suite.mockRepo.EXPECT().GetWithFields(id).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.projectService.GetByID(id)
	suite.True(apperrors.IsNotFound(err))
}

func (suite *ProjectServiceTestSuite) TestGetAllClampsPagination() {
	suite.mockRepo.EXPECT().GetAll(20, 0).Return(nil, int64(0), nil)

	resp, err := suite.projectService.GetAll(0, 1000)
	suite.Require().NoError(err)
	suite.Equal(1, resp.Page)
	suite.Equal(20, resp.PageSize)
	suite.NotNil(resp.Projects)
}

func (suite *ProjectServiceTestSuite) TestUpdateAppliesOnlyGivenMembers() {
	id := uuid.New()
	existing := &models.Project{BaseModel: models.BaseModel{ID: id}, Name: "Old", Description: "keep", ExpectedCount: 3}
	suite.mockRepo.EXPECT().GetByID(id).Return(existing, nil)
	suite.mockRepo.EXPECT().Update(existing).Return(nil)

	name := "New"
	project, err := suite.projectService.Update(id, &service.UpdateProjectRequest{Name: &name})
	suite.Require().NoError(err)
	suite.Equal("New", project.Name)
	suite.Equal("keep", project.Description)
	suite.Equal(3, project.ExpectedCount)
}

func (suite *ProjectServiceTestSuite) TestDelete() {
	id := uuid.New()
	suite.mockRepo.EXPECT().GetByID(id).Return(&models.Project{}, nil)
	suite.mockRepo.EXPECT().Delete(id).Return(nil)
	suite.NoError(suite.projectService.Delete(id))

	missing := uuid.New()
	suite.mockRepo.EXPECT().GetByID(missing).Return(nil, gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.projectService.Delete(missing), apperrors.ErrProjectNotFound)
}

func (suite *ProjectServiceTestSuite) TestAddFieldDefaultsAndOrder() {
	projectID := uuid.New()
	suite.mockRepo.EXPECT().GetByID(projectID).Return(&models.Project{}, nil)
	suite.mockFieldRepo.EXPECT().GetByName(projectID, "Serial").Return(nil, gorm.ErrRecordNotFound)
	suite.mockFieldRepo.EXPECT().MaxOrder(projectID).Return(4, nil)
	suite.mockFieldRepo.EXPECT().Create(gomock.Any()).Return(nil)

	field, err := suite.projectService.AddField(projectID, &service.AddFieldRequest{Name: "Serial", Options: service.FieldOptions{"ignored"}})
	suite.Require().NoError(err)
	suite.Equal(models.FieldTypeText, field.FieldType)
	suite.Equal(5, field.Order)
	suite.False(field.IsRequired)
	suite.Empty(field.Options)
}

func (suite *ProjectServiceTestSuite) TestAddFieldFirstFieldGetsOrderZero() {
	projectID := uuid.New()
	suite.mockRepo.EXPECT().GetByID(projectID).Return(&models.Project{}, nil)
	suite.mockFieldRepo.EXPECT().GetByName(projectID, "Site").Return(nil, gorm.ErrRecordNotFound)
	suite.mockFieldRepo.EXPECT().MaxOrder(projectID).Return(-1, nil)
	suite.mockFieldRepo.EXPECT().Create(gomock.Any()).Return(nil)

	var req service.AddFieldRequest
	suite.Require().NoError(json.Unmarshal([]byte(`{"name":"Site","field_type":"dropdown","options":"HQ, Annex,,"}`), &req))

	field, err := suite.projectService.AddField(projectID, &req)
	suite.Require().NoError(err)
	suite.Equal(0, field.Order)
	suite.Equal([]string{"HQ", "Annex"}, []string(field.Options))
}

func (suite *ProjectServiceTestSuite) TestAddFieldErrors() {
	projectID := uuid.New()

	_, err := suite.projectService.AddField(projectID, &service.AddFieldRequest{Name: " "})
	suite.ErrorIs(err, apperrors.ErrFieldNameRequired)

	_, err = suite.projectService.AddField(projectID, &service.AddFieldRequest{Name: "X", FieldType: "currency"})
	suite.ErrorIs(err, apperrors.ErrInvalidFieldType)

	suite.mockRepo.EXPECT().GetByID(projectID).Return(&models.Project{}, nil)
	suite.mockFieldRepo.EXPECT().GetByName(projectID, "Serial").Return(&models.ProjectField{Name: "serial"}, nil)
	_, err = suite.projectService.AddField(projectID, &service.AddFieldRequest{Name: "Serial"})
	suite.True(apperrors.IsAlreadyExists(err))

	missing := uuid.New()
	suite.mockRepo.EXPECT().GetByID(missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.projectService.AddField(missing, &service.AddFieldRequest{Name: "Serial"})
	suite.ErrorIs(err, apperrors.ErrProjectNotFound)
}

func (suite *ProjectServiceTestSuite) TestRemoveField() {
	projectID, fieldID := uuid.New(), uuid.New()
	suite.mockFieldRepo.EXPECT().GetByID(fieldID).Return(&models.ProjectField{ProjectID: projectID}, nil)
	suite.mockFieldRepo.EXPECT().Delete(fieldID).Return(nil)
	suite.NoError(suite.projectService.RemoveField(projectID, fieldID))

	// a field of another project is reported as missing
	suite.mockFieldRepo.EXPECT().GetByID(fieldID).Return(&models.ProjectField{ProjectID: uuid.New()}, nil)
	suite.ErrorIs(suite.projectService.RemoveField(projectID, fieldID), apperrors.ErrFieldNotFound)

	suite.mockFieldRepo.EXPECT().GetByID(fieldID).Return(nil, errors.New("db down"))
	err := suite.projectService.RemoveField(projectID, fieldID)
	suite.Error(err)
	suite.False(apperrors.IsNotFound(err))
}

func TestFieldOptionsUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"list", `["A"," B "]`, []string{"A", "B"}, false},
		{"comma string", `"A,B , C"`, []string{"A", "B", "C"}, false},
		{"empty string", `""`, []string{}, false},
		{"number", `42`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o service.FieldOptions
			err := json.Unmarshal([]byte(tt.input), &o)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, []string(o))
		})
	}
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
