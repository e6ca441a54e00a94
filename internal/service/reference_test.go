package service_test

import (
	"errors"
	"testing"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/mocks"
	"deployment-tracker/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// ReferenceServiceTestSuite defines the test suite for ReferenceService
type ReferenceServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockStatuses    *mocks.MockStatusRepositoryInterface
	mockTechnicians *mocks.MockTechnicianRepositoryInterface
	mockDepartments *mocks.MockDepartmentRepositoryInterface
	svc             *service.ReferenceService
}

func (suite *ReferenceServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockStatuses = mocks.NewMockStatusRepositoryInterface(suite.ctrl)
	suite.mockTechnicians = mocks.NewMockTechnicianRepositoryInterface(suite.ctrl)
	suite.mockDepartments = mocks.NewMockDepartmentRepositoryInterface(suite.ctrl)
	suite.svc = service.NewReferenceService(suite.mockStatuses, suite.mockTechnicians, suite.mockDepartments, validator.New())
}

func (suite *ReferenceServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ReferenceServiceTestSuite) TestListsNeverReturnNil() {
	suite.mockStatuses.EXPECT().GetAll().Return(nil, nil)
	suite.mockTechnicians.EXPECT().GetAll().Return(nil, nil)
	suite.mockDepartments.EXPECT().GetAll().Return(nil, nil)

	statuses, err := suite.svc.ListStatuses()
	suite.Require().NoError(err)
	suite.NotNil(statuses)

	technicians, err := suite.svc.ListTechnicians()
	suite.Require().NoError(err)
	suite.NotNil(technicians)

	departments, err := suite.svc.ListDepartments()
	suite.Require().NoError(err)
	suite.NotNil(departments)
}

func (suite *ReferenceServiceTestSuite) TestCreateStatus() {
	suite.mockStatuses.EXPECT().GetByName("Pending").Return(nil, gorm.ErrRecordNotFound)
	suite.mockStatuses.EXPECT().Create(gomock.Any()).Return(nil)

	status, err := suite.svc.CreateStatus(&service.CreateStatusRequest{Name: " Pending ", Order: 1})
	suite.Require().NoError(err)
	suite.Equal("Pending", status.Name)
	suite.Equal(1, status.Order)

	suite.mockStatuses.EXPECT().GetByName("Pending").Return(&models.DeploymentStatus{}, nil)
	_, err = suite.svc.CreateStatus(&service.CreateStatusRequest{Name: "Pending"})
	suite.ErrorIs(err, apperrors.ErrStatusExists)

	_, err = suite.svc.CreateStatus(&service.CreateStatusRequest{Name: "  "})
	suite.Error(err)
}

func (suite *ReferenceServiceTestSuite) TestCreateTechnician() {
	suite.mockTechnicians.EXPECT().GetByUsername("tess").Return(nil, gorm.ErrRecordNotFound)
	suite.mockTechnicians.EXPECT().Create(gomock.Any()).Return(nil)

	tech, err := suite.svc.CreateTechnician(&service.CreateTechnicianRequest{Username: "tess", Name: "Tess", Email: "tess@example.com"})
	suite.Require().NoError(err)
	suite.Equal("Tess", tech.Name)

	_, err = suite.svc.CreateTechnician(&service.CreateTechnicianRequest{Username: "x", Name: "X", Email: "not-an-email"})
	suite.Error(err)

	suite.mockTechnicians.EXPECT().GetByUsername("tess").Return(&models.Technician{}, nil)
	_, err = suite.svc.CreateTechnician(&service.CreateTechnicianRequest{Username: "tess", Name: "Tess"})
	suite.ErrorIs(err, apperrors.ErrTechnicianExists)
}

func (suite *ReferenceServiceTestSuite) TestCreateDepartment() {
	suite.mockDepartments.EXPECT().GetByName("Finance").Return(nil, gorm.ErrRecordNotFound)
	suite.mockDepartments.EXPECT().Create(gomock.Any()).Return(nil)

	dept, err := suite.svc.CreateDepartment(&service.CreateDepartmentRequest{Name: "Finance", Division: "Corporate"})
	suite.Require().NoError(err)
	suite.Equal("Corporate", dept.Division)

	suite.mockDepartments.EXPECT().GetByName("Finance").Return(nil, errors.New("db down"))
	_, err = suite.svc.CreateDepartment(&service.CreateDepartmentRequest{Name: "Finance"})
	suite.Error(err)
	suite.False(apperrors.IsAlreadyExists(err))
}

func (suite *ReferenceServiceTestSuite) TestUpdateTechnician() {
	id := uuid.New()
	existing := func() *models.Technician {
		return &models.Technician{BaseModel: models.BaseModel{ID: id}, Username: "tess", Name: "Tess"}
	}
	username, name := " tessa ", "Tessa"

	suite.mockTechnicians.EXPECT().GetByID(id).Return(existing(), nil)
	suite.mockTechnicians.EXPECT().GetByUsername("tessa").Return(nil, gorm.ErrRecordNotFound)
	suite.mockTechnicians.EXPECT().Update(gomock.Any()).DoAndReturn(func(t *models.Technician) error {
		suite.Equal("tessa", t.Username)
		suite.Equal("Tessa", t.Name)
		return nil
	})
	tech, err := suite.svc.UpdateTechnician(id, &service.UpdateTechnicianRequest{Username: &username, Name: &name})
	suite.Require().NoError(err)
	suite.Equal("tessa", tech.Username)

	taken := "tom"
	suite.mockTechnicians.EXPECT().GetByID(id).Return(existing(), nil)
	suite.mockTechnicians.EXPECT().GetByUsername("tom").Return(&models.Technician{}, nil)
	_, err = suite.svc.UpdateTechnician(id, &service.UpdateTechnicianRequest{Username: &taken})
	suite.ErrorIs(err, apperrors.ErrTechnicianExists)

	blank := "  "
	_, err = suite.svc.UpdateTechnician(id, &service.UpdateTechnicianRequest{Name: &blank})
	suite.Error(err)

	suite.mockTechnicians.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.svc.UpdateTechnician(id, &service.UpdateTechnicianRequest{Name: &name})
	suite.ErrorIs(err, apperrors.ErrTechnicianNotFound)
}

func (suite *ReferenceServiceTestSuite) TestDeleteTechnicianAndDepartment() {
	id := uuid.New()
	suite.mockTechnicians.EXPECT().GetByID(id).Return(&models.Technician{}, nil)
	suite.mockTechnicians.EXPECT().Delete(id).Return(nil)
	suite.NoError(suite.svc.DeleteTechnician(id))

	suite.mockTechnicians.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.svc.DeleteTechnician(id), apperrors.ErrTechnicianNotFound)

	suite.mockDepartments.EXPECT().GetByID(id).Return(&models.Department{}, nil)
	suite.mockDepartments.EXPECT().Delete(id).Return(nil)
	suite.NoError(suite.svc.DeleteDepartment(id))

	suite.mockDepartments.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.svc.DeleteDepartment(id), apperrors.ErrDepartmentNotFound)
}

func (suite *ReferenceServiceTestSuite) TestUpdateDepartment() {
	id := uuid.New()
	dept := &models.Department{BaseModel: models.BaseModel{ID: id}, Name: "Finance", Division: "Corporate"}

	// a case-only rename skips the uniqueness check
	rename, division := "FINANCE", "Shared Services"
	suite.mockDepartments.EXPECT().GetByID(id).Return(dept, nil)
	suite.mockDepartments.EXPECT().Update(dept).Return(nil)
	updated, err := suite.svc.UpdateDepartment(id, &service.UpdateDepartmentRequest{Name: &rename, Division: &division})
	suite.Require().NoError(err)
	suite.Equal("FINANCE", updated.Name)
	suite.Equal("Shared Services", updated.Division)

	taken := "HR"
	suite.mockDepartments.EXPECT().GetByID(id).Return(&models.Department{Name: "Finance"}, nil)
	suite.mockDepartments.EXPECT().GetByName("HR").Return(&models.Department{}, nil)
	_, err = suite.svc.UpdateDepartment(id, &service.UpdateDepartmentRequest{Name: &taken})
	suite.ErrorIs(err, apperrors.ErrDepartmentExists)
}

func TestReferenceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReferenceServiceTestSuite))
}
